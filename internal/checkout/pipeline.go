package checkout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/msoohome/storefront/internal/domain"
	"github.com/msoohome/storefront/internal/messaging/kafka"
	"github.com/msoohome/storefront/internal/metrics"
)

// DefaultConfirmDelay is how long a successful attempt lingers on the
// confirmation before the cart is cleared, mirroring the settlement pause
// customers see in the storefront.
const DefaultConfirmDelay = 2 * time.Second

var (
	// ErrAttemptNotFound: no attempt registered under the ID.
	ErrAttemptNotFound = errors.New("checkout attempt not found")
	// ErrAttemptBusy: the attempt is mid-processing; the latch rejects a
	// second confirmation.
	ErrAttemptBusy = errors.New("checkout attempt is already processing")
	// ErrStageConflict: the requested move is not allowed from the current
	// stage.
	ErrStageConflict = errors.New("checkout stage conflict")
)

// Cart is the slice of the cart engine the pipeline needs: a snapshot of
// the lines at prompt time and the ability to clear after success.
type Cart interface {
	Lines() []domain.CartLine
	Total() int64
	Clear(ctx context.Context)
}

// Attempt is one pass through the checkout stage machine.
type Attempt struct {
	ID               string
	IdempotencyKey   string
	User             domain.User
	Lines            []domain.CartLine
	TotalMinor       int64
	DeliveryLocation string
	Phone            string
	Stage            Stage
	OrderID          string
	Receipt          domain.PaymentReceipt
	FailReason       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type attemptState struct {
	attempt Attempt
	cart    Cart
}

// Pipeline drives checkout attempts from prompt to a terminal stage. The
// payment provider is charged exactly once per attempt: a persistence
// failure after capture parks the attempt in Failed, and Retry re-runs only
// the persistence step.
type Pipeline struct {
	orders        domain.OrderRepository
	outbox        domain.OutboxRepository
	timeline      domain.TimelineRepository
	idempotency   domain.IdempotencyRepository
	payments      domain.PaymentAuthorizer
	logger        *log.Entry
	metrics       *metrics.CheckoutMetrics
	kafkaProducer *kafka.Producer // optional producer for order events

	confirmDelay time.Duration

	mu       sync.Mutex
	attempts map[string]*attemptState
	byKey    map[string]string
}

// NewPipeline builds a working pipeline instance.
func NewPipeline(
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	timeline domain.TimelineRepository,
	idempotency domain.IdempotencyRepository,
	payments domain.PaymentAuthorizer,
	logger *log.Entry,
) *Pipeline {
	if logger == nil {
		logger = log.New().WithField("component", "checkout")
	}
	return &Pipeline{
		orders:       orders,
		outbox:       outbox,
		timeline:     timeline,
		idempotency:  idempotency,
		payments:     payments,
		logger:       logger,
		metrics:      metrics.NewCheckoutMetrics(),
		confirmDelay: DefaultConfirmDelay,
		attempts:     make(map[string]*attemptState),
		byKey:        make(map[string]string),
	}
}

// NewPipelineWithKafka builds a pipeline that additionally publishes order
// events straight to Kafka.
func NewPipelineWithKafka(
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	timeline domain.TimelineRepository,
	idempotency domain.IdempotencyRepository,
	payments domain.PaymentAuthorizer,
	kafkaProducer *kafka.Producer,
	logger *log.Entry,
) *Pipeline {
	p := NewPipeline(orders, outbox, timeline, idempotency, payments, logger)
	p.kafkaProducer = kafkaProducer
	return p
}

// NewPipelineWithoutMetrics builds a pipeline without metrics (for tests).
func NewPipelineWithoutMetrics(
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	timeline domain.TimelineRepository,
	idempotency domain.IdempotencyRepository,
	payments domain.PaymentAuthorizer,
	logger *log.Entry,
) *Pipeline {
	p := NewPipeline(orders, outbox, timeline, idempotency, payments, logger)
	p.metrics = nil
	return p
}

// SetConfirmDelay overrides the post-success confirmation pause.
func (p *Pipeline) SetConfirmDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	p.confirmDelay = d
}

// Begin opens a checkout attempt at the prompt stage: it validates the
// delivery details, snapshots the cart, and registers the idempotency key.
// A second Begin with the same key collapses onto the original attempt.
func (p *Pipeline) Begin(ctx context.Context, key string, user domain.User, cart Cart, deliveryLocation, phone string) (Attempt, error) {
	if strings.TrimSpace(deliveryLocation) == "" {
		return Attempt{}, domain.ErrDeliveryLocationRequired
	}
	if strings.TrimSpace(phone) == "" {
		return Attempt{}, domain.ErrPhoneRequired
	}

	lines := cart.Lines()
	if len(lines) == 0 {
		return Attempt{}, domain.ErrOrderLinesRequired
	}
	total := domain.CartTotal(lines)

	if key == "" {
		key = uuid.NewString()
	}
	hash := requestHash(user.ID, deliveryLocation, phone, total)

	if _, err := p.idempotency.CreateProcessing(key, hash, time.Time{}); err != nil {
		if errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists) {
			p.mu.Lock()
			id, ok := p.byKey[key]
			var existing Attempt
			if ok {
				existing = p.attempts[id].attempt
			}
			p.mu.Unlock()
			if ok {
				if p.metrics != nil {
					p.metrics.RecordDuplicateSubmit()
				}
				p.logger.WithFields(log.Fields{
					"attempt_id":      existing.ID,
					"idempotency_key": key,
				}).Info("duplicate checkout submission collapsed")
				return existing, nil
			}
		}
		return Attempt{}, err
	}

	now := time.Now().UTC()
	attempt := Attempt{
		ID:               uuid.NewString(),
		IdempotencyKey:   key,
		User:             user,
		Lines:            domain.CloneLines(lines),
		TotalMinor:       total,
		DeliveryLocation: strings.TrimSpace(deliveryLocation),
		Phone:            strings.TrimSpace(phone),
		Stage:            StagePrompt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	p.mu.Lock()
	p.attempts[attempt.ID] = &attemptState{attempt: attempt, cart: cart}
	p.byKey[key] = attempt.ID
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.RecordAttemptStarted()
	}
	p.logger.WithFields(log.Fields{
		"attempt_id":  attempt.ID,
		"user_id":     user.ID,
		"total_minor": total,
	}).Info("checkout attempt opened")
	return attempt, nil
}

// Attempt returns a snapshot of the attempt.
func (p *Pipeline) Attempt(id string) (Attempt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	state, ok := p.attempts[id]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	return state.attempt, nil
}

// Confirm runs the attempt through payment and persistence. The first call
// wins the latch; concurrent confirmations get ErrAttemptBusy and a confirm
// of an already successful attempt returns it unchanged.
func (p *Pipeline) Confirm(ctx context.Context, id string) (Attempt, error) {
	start := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.RecordConfirmDuration(time.Since(start))
		}
	}()

	state, attempt, err := p.latch(id)
	if err != nil || attempt.Stage == StageSuccess {
		return attempt, err
	}

	payStart := time.Now()
	receipt, err := p.payments.Authorize(ctx, attempt.ID, attempt.TotalMinor, attempt.Phone)
	if p.metrics != nil {
		p.metrics.RecordStageDuration("payment", time.Since(payStart))
	}
	if err != nil {
		// Nothing was charged; hand the prompt back.
		p.setStage(state, StagePrompt, "")
		p.logger.WithError(err).WithField("attempt_id", attempt.ID).Warn("payment authorization failed")
		return p.snapshot(state), fmt.Errorf("authorize payment: %w", err)
	}
	if receipt.Status != domain.PaymentStatusCaptured {
		p.setStage(state, StagePrompt, "")
		p.logger.WithFields(log.Fields{
			"attempt_id": attempt.ID,
			"status":     receipt.Status,
		}).Warn("unexpected payment status")
		return p.snapshot(state), domain.ErrPaymentIndeterminate
	}

	p.mu.Lock()
	state.attempt.Receipt = receipt
	p.mu.Unlock()

	return p.persist(ctx, state)
}

// Retry re-runs the persistence step of a failed attempt. Payment was
// already captured, so the provider is never charged again.
func (p *Pipeline) Retry(ctx context.Context, id string) (Attempt, error) {
	p.mu.Lock()
	state, ok := p.attempts[id]
	if !ok {
		p.mu.Unlock()
		return Attempt{}, ErrAttemptNotFound
	}
	if state.attempt.Stage != StageFailed {
		current := state.attempt
		p.mu.Unlock()
		return current, ErrStageConflict
	}
	state.attempt.Stage = StageProcessing
	state.attempt.FailReason = ""
	state.attempt.UpdatedAt = time.Now().UTC()
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.RecordAttemptRetried()
	}
	p.logger.WithField("attempt_id", id).Info("retrying failed checkout attempt")
	return p.persist(ctx, state)
}

// Cancel abandons an attempt still at the prompt. Processing and later
// stages cannot be cancelled.
func (p *Pipeline) Cancel(ctx context.Context, id string) (Attempt, error) {
	p.mu.Lock()
	state, ok := p.attempts[id]
	if !ok {
		p.mu.Unlock()
		return Attempt{}, ErrAttemptNotFound
	}
	if !state.attempt.Stage.CanTransitionTo(StageCancelled) {
		current := state.attempt
		p.mu.Unlock()
		return current, ErrStageConflict
	}
	state.attempt.Stage = StageCancelled
	state.attempt.UpdatedAt = time.Now().UTC()
	attempt := state.attempt
	p.mu.Unlock()

	if err := p.idempotency.MarkFailed(attempt.IdempotencyKey, []byte(`{"reason":"cancelled"}`), 0); err != nil {
		p.logger.WithError(err).WithField("attempt_id", id).Warn("failed to mark idempotency record cancelled")
	}
	if p.metrics != nil {
		p.metrics.RecordAttemptCancelled()
	}
	p.logger.WithField("attempt_id", id).Info("checkout attempt cancelled")
	return attempt, nil
}

// latch moves Prompt to Processing under the lock. A successful attempt is
// returned as-is, a processing one rejected.
func (p *Pipeline) latch(id string) (*attemptState, Attempt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	state, ok := p.attempts[id]
	if !ok {
		return nil, Attempt{}, ErrAttemptNotFound
	}
	switch state.attempt.Stage {
	case StageSuccess:
		return state, state.attempt, nil
	case StageProcessing:
		return nil, state.attempt, ErrAttemptBusy
	case StagePrompt:
		state.attempt.Stage = StageProcessing
		state.attempt.UpdatedAt = time.Now().UTC()
		return state, state.attempt, nil
	default:
		return nil, state.attempt, ErrStageConflict
	}
}

// persist writes the order, emits its events and completes the attempt.
// Any failure after the captured payment parks the attempt in Failed for a
// later Retry.
func (p *Pipeline) persist(ctx context.Context, state *attemptState) (Attempt, error) {
	attempt := p.snapshot(state)
	persistStart := time.Now()

	order := domain.Order{
		User:             attempt.User,
		Lines:            attempt.Lines,
		TotalMinor:       attempt.TotalMinor,
		DeliveryLocation: attempt.DeliveryLocation,
		Status:           domain.OrderStatusProcessing,
	}
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		p.fail(state, errs[0])
		return p.snapshot(state), errs[0]
	}

	created, err := p.orders.Insert(ctx, order)
	if p.metrics != nil {
		p.metrics.RecordStageDuration("persist", time.Since(persistStart))
	}
	if err != nil {
		p.fail(state, err)
		return p.snapshot(state), fmt.Errorf("persist order: %w", err)
	}

	p.mu.Lock()
	state.attempt.OrderID = created.ID
	state.attempt.Stage = StageSuccess
	state.attempt.UpdatedAt = time.Now().UTC()
	attempt = state.attempt
	cart := state.cart
	p.mu.Unlock()

	p.emitOrderCreated(&attempt, created)
	if p.metrics != nil {
		p.metrics.RecordAttemptSucceeded()
	}
	p.logger.WithFields(log.Fields{
		"attempt_id": attempt.ID,
		"order_id":   created.ID,
	}).Info("checkout completed")

	// Let the confirmation linger, then release the cart.
	if p.confirmDelay > 0 {
		timer := time.NewTimer(p.confirmDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}
	cart.Clear(ctx)

	return attempt, nil
}

func (p *Pipeline) fail(state *attemptState, cause error) {
	p.setStage(state, StageFailed, cause.Error())
	attempt := p.snapshot(state)

	if p.timeline != nil {
		event := domain.TimelineEvent{
			OrderID:  attempt.ID,
			Type:     "CheckoutFailed",
			Reason:   cause.Error(),
			Occurred: time.Now().UTC(),
		}
		if err := p.timeline.Append(event); err != nil {
			p.logger.WithError(err).WithField("attempt_id", attempt.ID).Warn("append timeline event failed")
		} else if p.metrics != nil {
			p.metrics.RecordTimelineEvent()
		}
	}
	p.publishOrderEvent(kafka.EventTypeCheckoutFailed, attempt.ID, attempt.User.ID, "", map[string]interface{}{
		"reason": cause.Error(),
	})

	if p.metrics != nil {
		p.metrics.RecordAttemptFailed()
	}
	p.logger.WithError(cause).WithField("attempt_id", attempt.ID).Error("checkout failed after payment, awaiting retry")
}

func (p *Pipeline) emitOrderCreated(attempt *Attempt, order domain.Order) {
	payload, err := json.Marshal(map[string]interface{}{
		"order_id":          order.ID,
		"user_id":           order.User.ID,
		"total_minor":       order.TotalMinor,
		"delivery_location": order.DeliveryLocation,
		"status":            string(order.Status),
		"payment_reference": attempt.Receipt.Reference,
		"ts":                time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		p.logger.WithError(err).WithField("order_id", order.ID).Error("marshal order event failed")
		return
	}

	msg := domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   order.ID,
		EventType:     "OrderCreated",
		Payload:       payload,
	}
	if _, err := p.outbox.Enqueue(msg); err != nil {
		p.logger.WithError(err).WithField("order_id", order.ID).Error("enqueue order event failed")
	} else if p.metrics != nil {
		p.metrics.RecordOutboxEvent()
	}

	if p.timeline != nil {
		event := domain.TimelineEvent{
			OrderID:  order.ID,
			Type:     "OrderCreated",
			Occurred: time.Now().UTC(),
		}
		if err := p.timeline.Append(event); err != nil {
			p.logger.WithError(err).WithField("order_id", order.ID).Warn("append timeline event failed")
		} else if p.metrics != nil {
			p.metrics.RecordTimelineEvent()
		}
	}

	p.publishOrderEvent(kafka.EventTypeOrderCreated, order.ID, order.User.ID, string(order.Status), map[string]interface{}{
		"total_minor": order.TotalMinor,
	})

	response, err := json.Marshal(map[string]string{"order_id": order.ID})
	if err == nil {
		if err := p.idempotency.MarkDone(attempt.IdempotencyKey, response, 201); err != nil {
			p.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to mark idempotency record done")
		}
	}
}

// NoteStatusChange records an administrator-driven order status change:
// a timeline entry, an outbox event, and a direct Kafka publish when a
// producer is configured.
func (p *Pipeline) NoteStatusChange(orderID, userID string, status domain.OrderStatus) {
	payload, err := json.Marshal(map[string]interface{}{
		"order_id": orderID,
		"status":   string(status),
		"ts":       time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		p.logger.WithError(err).WithField("order_id", orderID).Error("marshal status event failed")
		return
	}

	msg := domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   orderID,
		EventType:     "OrderStatusChanged",
		Payload:       payload,
	}
	if _, err := p.outbox.Enqueue(msg); err != nil {
		p.logger.WithError(err).WithField("order_id", orderID).Error("enqueue status event failed")
	} else if p.metrics != nil {
		p.metrics.RecordOutboxEvent()
	}

	if p.timeline != nil {
		event := domain.TimelineEvent{
			OrderID:  orderID,
			Type:     "StatusChanged",
			Reason:   string(status),
			Occurred: time.Now().UTC(),
		}
		if err := p.timeline.Append(event); err != nil {
			p.logger.WithError(err).WithField("order_id", orderID).Warn("append timeline event failed")
		} else if p.metrics != nil {
			p.metrics.RecordTimelineEvent()
		}
	}

	p.publishOrderEvent(kafka.EventTypeOrderStatusChanged, orderID, userID, string(status), nil)
}

// publishOrderEvent pushes an event straight to Kafka when a producer is
// configured; the outbox remains the durable path.
func (p *Pipeline) publishOrderEvent(eventType kafka.EventType, orderID, userID, status string, metadata map[string]interface{}) {
	if p.kafkaProducer == nil {
		return
	}

	event := kafka.NewOrderEvent(eventType, orderID, userID, status, metadata)
	if err := p.kafkaProducer.PublishEvent(kafka.TopicOrderEvents, orderID, event); err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"event_type": eventType,
			"order_id":   orderID,
		}).Warn("failed to publish order event to kafka")
	}
}

func (p *Pipeline) setStage(state *attemptState, stage Stage, failReason string) {
	p.mu.Lock()
	state.attempt.Stage = stage
	state.attempt.FailReason = failReason
	state.attempt.UpdatedAt = time.Now().UTC()
	p.mu.Unlock()
}

func (p *Pipeline) snapshot(state *attemptState) Attempt {
	p.mu.Lock()
	defer p.mu.Unlock()
	return state.attempt
}

func requestHash(userID, deliveryLocation, phone string, totalMinor int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%d", userID, deliveryLocation, phone, totalMinor)))
	return hex.EncodeToString(sum[:])
}
