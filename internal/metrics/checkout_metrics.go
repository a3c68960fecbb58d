package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics covers the checkout attempt lifecycle.
type CheckoutMetrics struct {
	attemptsStarted   prometheus.Counter
	attemptsCancelled prometheus.Counter
	attemptsSucceeded prometheus.Counter
	attemptsFailed    prometheus.Counter
	attemptsRetried   prometheus.Counter
	duplicateSubmits  prometheus.Counter

	confirmDuration prometheus.Histogram
	stageDuration   *prometheus.HistogramVec

	timelineEvents prometheus.Counter
	outboxEvents   prometheus.Counter

	activeAttempts prometheus.Gauge
}

// NewCheckoutMetrics registers the checkout collectors on the default
// registerer, reusing collectors that are already registered so repeated
// construction is safe.
func NewCheckoutMetrics() *CheckoutMetrics {
	return newCheckoutMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCheckoutMetricsWithRegisterer(registerer prometheus.Registerer) *CheckoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CheckoutMetrics{
		attemptsStarted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_checkout_attempts_started_total",
			Help: "Total number of checkout attempts started",
		}),
		attemptsCancelled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_checkout_attempts_cancelled_total",
			Help: "Total number of checkout attempts cancelled at the prompt",
		}),
		attemptsSucceeded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_checkout_attempts_succeeded_total",
			Help: "Total number of checkout attempts that produced an order",
		}),
		attemptsFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_checkout_attempts_failed_total",
			Help: "Total number of checkout attempts that failed after payment",
		}),
		attemptsRetried: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_checkout_attempts_retried_total",
			Help: "Total number of retries of failed checkout attempts",
		}),
		duplicateSubmits: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_checkout_duplicate_submits_total",
			Help: "Total number of duplicate checkout submissions collapsed by idempotency key",
		}),
		confirmDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "storefront_checkout_confirm_duration_seconds",
			Help:    "Duration of checkout confirmation in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		stageDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "storefront_checkout_stage_duration_seconds",
			Help:    "Duration of individual checkout stages in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"stage"}),
		timelineEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_timeline_events_total",
			Help: "Total number of order timeline events recorded",
		}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_outbox_events_total",
			Help: "Total number of events enqueued to the outbox",
		}),
		activeAttempts: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "storefront_checkout_active_attempts",
			Help: "Number of checkout attempts currently between prompt and a terminal stage",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordAttemptStarted counts a new checkout attempt.
func (m *CheckoutMetrics) RecordAttemptStarted() {
	m.attemptsStarted.Inc()
	m.activeAttempts.Inc()
}

// RecordAttemptCancelled counts a prompt-stage cancellation.
func (m *CheckoutMetrics) RecordAttemptCancelled() {
	m.attemptsCancelled.Inc()
	m.activeAttempts.Dec()
}

// RecordAttemptSucceeded counts a completed checkout.
func (m *CheckoutMetrics) RecordAttemptSucceeded() {
	m.attemptsSucceeded.Inc()
	m.activeAttempts.Dec()
}

// RecordAttemptFailed counts a checkout that failed after payment.
func (m *CheckoutMetrics) RecordAttemptFailed() {
	m.attemptsFailed.Inc()
	m.activeAttempts.Dec()
}

// RecordAttemptRetried counts a retry of a failed attempt.
func (m *CheckoutMetrics) RecordAttemptRetried() {
	m.attemptsRetried.Inc()
	m.activeAttempts.Inc()
}

// RecordDuplicateSubmit counts a submission collapsed onto an earlier one.
func (m *CheckoutMetrics) RecordDuplicateSubmit() {
	m.duplicateSubmits.Inc()
}

// RecordConfirmDuration records how long a confirmation took end to end.
func (m *CheckoutMetrics) RecordConfirmDuration(duration time.Duration) {
	m.confirmDuration.Observe(duration.Seconds())
}

// RecordStageDuration records how long one stage took.
func (m *CheckoutMetrics) RecordStageDuration(stage string, duration time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordTimelineEvent counts a timeline append.
func (m *CheckoutMetrics) RecordTimelineEvent() {
	m.timelineEvents.Inc()
}

// RecordOutboxEvent counts an outbox enqueue.
func (m *CheckoutMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}
