package payment_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/msoohome/storefront/internal/domain"
	"github.com/msoohome/storefront/internal/service/payment"
)

func TestSimulator_CapturesAfterDelay(t *testing.T) {
	sim := payment.NewSimulator(10*time.Millisecond, nil)

	receipt, err := sim.Authorize(context.Background(), "order-1", 22498, "+254700000000")
	if err != nil {
		t.Fatalf("Authorize failed: %v", err)
	}
	if receipt.Status != domain.PaymentStatusCaptured {
		t.Fatalf("expected captured, got %s", receipt.Status)
	}
	if !strings.HasPrefix(receipt.Reference, "SIM-") {
		t.Fatalf("expected SIM- reference, got %q", receipt.Reference)
	}
}

func TestSimulator_CancelledContextAbortsWait(t *testing.T) {
	sim := payment.NewSimulator(time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	receipt, err := sim.Authorize(ctx, "order-1", 100, "+254700000000")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if receipt.Status != domain.PaymentStatusFailed {
		t.Fatalf("expected failed status, got %s", receipt.Status)
	}
}

func TestSimulator_ZeroDelaySkipsWait(t *testing.T) {
	sim := payment.NewSimulator(0, nil)

	start := time.Now()
	if _, err := sim.Authorize(context.Background(), "order-1", 100, "+254700000000"); err != nil {
		t.Fatalf("Authorize failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("expected immediate capture, took %s", elapsed)
	}
}
