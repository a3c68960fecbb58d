package domain

import (
	"context"
	"time"
)

// PaymentAuthorizer abstracts the payment provider. The storefront ships a
// fixed-delay simulator; a real gateway client can be substituted without
// touching the checkout state machine. Authorize blocks until the provider
// decides or ctx is done.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, orderRef string, amountMinor int64, phone string) (PaymentReceipt, error)
}

// OutboxPublisher pushes an outbox message to the broker; implementations
// must tolerate redelivery.
type OutboxPublisher interface {
	Publish(event OutboxMessage) error
}

// OutboxRepository stores events for asynchronous publication.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// IdempotencyRepository tracks checkout attempts by idempotency key so a
// duplicate submission collapses onto the original.
type IdempotencyRepository interface {
	CreateProcessing(key, requestHash string, ttlAt time.Time) (IdempotencyRecord, error)
	Get(key string) (IdempotencyRecord, error)
	MarkDone(key string, responseBody []byte, httpStatus int) error
	MarkFailed(key string, responseBody []byte, httpStatus int) error
	DeleteExpired(before time.Time, limit int) (int, error)
}

// OutboxMessage is one event awaiting publication.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats describes the current outbox backlog.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
