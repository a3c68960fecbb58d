package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/msoohome/storefront/internal/domain"
)

// DefaultAuthorizeDelay mirrors the settlement window of the mobile-money
// flow this simulator stands in for.
const DefaultAuthorizeDelay = 4 * time.Second

// Simulator is the stand-in payment provider: it waits a fixed settlement
// delay and then captures every charge. Cancelling the context aborts the
// wait with the context's error.
type Simulator struct {
	delay  time.Duration
	logger *log.Entry
}

func NewSimulator(delay time.Duration, logger *log.Entry) *Simulator {
	if delay < 0 {
		delay = DefaultAuthorizeDelay
	}
	if logger == nil {
		logger = log.WithField("component", "payment")
	}
	return &Simulator{delay: delay, logger: logger}
}

// Authorize charges the given amount against the customer's phone number.
// The simulator always captures; only a cancelled context fails it.
func (s *Simulator) Authorize(ctx context.Context, orderRef string, amountMinor int64, phone string) (domain.PaymentReceipt, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return domain.PaymentReceipt{Status: domain.PaymentStatusFailed},
				fmt.Errorf("payment authorization interrupted: %w", ctx.Err())
		}
	}

	receipt := domain.PaymentReceipt{
		Status:    domain.PaymentStatusCaptured,
		Reference: "SIM-" + uuid.NewString(),
	}
	s.logger.WithFields(log.Fields{
		"order_ref":    orderRef,
		"amount_minor": amountMinor,
		"reference":    receipt.Reference,
	}).Info("payment captured")
	return receipt, nil
}

var _ domain.PaymentAuthorizer = (*Simulator)(nil)
