package payment

import (
	"context"

	"github.com/msoohome/storefront/internal/domain"
)

// Mock is a configurable PaymentAuthorizer stub for tests.
type Mock struct {
	Receipt domain.PaymentReceipt
	Err     error

	AuthorizeCalls int
}

// NewMock returns a mock that captures by default.
func NewMock() *Mock {
	return &Mock{
		Receipt: domain.PaymentReceipt{Status: domain.PaymentStatusCaptured, Reference: "MOCK-1"},
	}
}

// Authorize returns the configured result and counts calls.
func (m *Mock) Authorize(ctx context.Context, orderRef string, amountMinor int64, phone string) (domain.PaymentReceipt, error) {
	m.AuthorizeCalls++
	return m.Receipt, m.Err
}

var _ domain.PaymentAuthorizer = (*Mock)(nil)
