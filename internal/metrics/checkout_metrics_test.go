package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewCheckoutMetrics(t *testing.T) {
	m := NewCheckoutMetrics()

	if m == nil {
		t.Fatal("NewCheckoutMetrics should not return nil")
	}
	if m.attemptsStarted == nil {
		t.Error("attemptsStarted counter should not be nil")
	}
	if m.attemptsSucceeded == nil {
		t.Error("attemptsSucceeded counter should not be nil")
	}
	if m.attemptsFailed == nil {
		t.Error("attemptsFailed counter should not be nil")
	}
	if m.confirmDuration == nil {
		t.Error("confirmDuration histogram should not be nil")
	}
	if m.stageDuration == nil {
		t.Error("stageDuration histogram vec should not be nil")
	}
	if m.activeAttempts == nil {
		t.Error("activeAttempts gauge should not be nil")
	}

	// Repeated construction must reuse the registered collectors, not panic.
	if again := NewCheckoutMetrics(); again == nil {
		t.Fatal("second NewCheckoutMetrics should not return nil")
	}
}

func TestAttemptLifecycleGauge(t *testing.T) {
	reg := prometheus.NewRegistry()

	started := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_attempts_started_total",
		Help: "Test counter",
	})
	succeeded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_attempts_succeeded_total",
		Help: "Test counter",
	})
	active := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_active_attempts",
		Help: "Test gauge",
	})
	reg.MustRegister(started, succeeded, active)

	m := &CheckoutMetrics{
		attemptsStarted:   started,
		attemptsSucceeded: succeeded,
		activeAttempts:    active,
	}

	m.RecordAttemptStarted()
	m.RecordAttemptStarted()
	m.RecordAttemptSucceeded()

	gaugeMetric := &dto.Metric{}
	if err := active.Write(gaugeMetric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}
	if gaugeMetric.Gauge.GetValue() != 1.0 {
		t.Errorf("expected 1 active attempt, got %f", gaugeMetric.Gauge.GetValue())
	}

	startedMetric := &dto.Metric{}
	if err := started.Write(startedMetric); err != nil {
		t.Fatalf("failed to write counter: %v", err)
	}
	if startedMetric.Counter.GetValue() != 2.0 {
		t.Errorf("expected 2 started attempts, got %f", startedMetric.Counter.GetValue())
	}
}

func TestRecordConfirmDuration(t *testing.T) {
	reg := prometheus.NewRegistry()

	confirm := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "test_confirm_duration_seconds",
		Help:    "Test histogram",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(confirm)

	m := &CheckoutMetrics{confirmDuration: confirm}

	m.RecordConfirmDuration(100 * time.Millisecond)
	m.RecordConfirmDuration(500 * time.Millisecond)

	metric := &dto.Metric{}
	if err := confirm.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("expected 2 samples, got %d", metric.Histogram.GetSampleCount())
	}
	sum := metric.Histogram.GetSampleSum()
	if sum < 0.55 || sum > 0.65 {
		t.Errorf("expected sum around 0.6, got %f", sum)
	}
}

func TestRecordStageDuration(t *testing.T) {
	reg := prometheus.NewRegistry()

	stage := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "test_stage_duration_seconds",
		Help:    "Test histogram vec",
		Buckets: []float64{0.001, 0.01, 0.1, 1.0},
	}, []string{"stage"})
	reg.MustRegister(stage)

	m := &CheckoutMetrics{stageDuration: stage}

	m.RecordStageDuration("processing", 50*time.Millisecond)

	observed := &dto.Metric{}
	observer := stage.WithLabelValues("processing")
	if err := observer.(prometheus.Histogram).Write(observed); err != nil {
		t.Fatalf("failed to write stage metric: %v", err)
	}
	if observed.Histogram.GetSampleCount() != 1 {
		t.Errorf("expected 1 sample for processing, got %d", observed.Histogram.GetSampleCount())
	}
}

func TestRecordDuplicateSubmit(t *testing.T) {
	reg := prometheus.NewRegistry()

	dup := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_duplicate_submits_total",
		Help: "Test counter",
	})
	reg.MustRegister(dup)

	m := &CheckoutMetrics{duplicateSubmits: dup}

	m.RecordDuplicateSubmit()
	m.RecordDuplicateSubmit()

	metric := &dto.Metric{}
	if err := dup.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected counter value 2.0, got %f", metric.Counter.GetValue())
	}
}
