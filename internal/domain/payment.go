package domain

// PaymentStatus describes the outcome of a payment authorization attempt.
type PaymentStatus string

const (
	// PaymentStatusPending means the authorization was started but has not
	// completed yet.
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusCaptured means the provider confirmed the charge.
	PaymentStatusCaptured PaymentStatus = "captured"
	// PaymentStatusDeclined means the provider rejected the charge.
	PaymentStatusDeclined PaymentStatus = "declined"
	// PaymentStatusFailed means the attempt errored before a decision.
	PaymentStatusFailed PaymentStatus = "failed"
)

// PaymentReceipt is what an authorizer hands back on completion. Reference
// may be empty when the provider does not issue one.
type PaymentReceipt struct {
	Status    PaymentStatus
	Reference string
}
