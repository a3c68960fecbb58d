package domain

import "time"

// IdempotencyStatus describes the lifecycle of an idempotency key.
type IdempotencyStatus string

const (
	// IdempotencyStatusProcessing means the attempt was accepted and is
	// still in flight.
	IdempotencyStatusProcessing IdempotencyStatus = "processing"
	// IdempotencyStatusDone means the attempt completed and its response
	// is stored.
	IdempotencyStatusDone IdempotencyStatus = "done"
	// IdempotencyStatusFailed means the attempt finished with an error.
	IdempotencyStatusFailed IdempotencyStatus = "failed"
)

// IdempotencyRecord stores the processing state of one keyed attempt.
type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	ResponseBody []byte
	HTTPStatus   int
	Status       IdempotencyStatus
	TTLAt        time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Valid reports whether the status is a supported value.
func (s IdempotencyStatus) Valid() bool {
	switch s {
	case IdempotencyStatusProcessing, IdempotencyStatusDone, IdempotencyStatusFailed:
		return true
	default:
		return false
	}
}
