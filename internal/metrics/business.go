package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Status values carried on the status attribute.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// errorKindNone is the error_kind of a successful operation.
const errorKindNone = "none"

// Outcome is the result of one engine operation as seen by metrics. ErrorKind
// is a stable kind name ("DecryptionFailed", "KeyRetrievalFailed"), never an
// error message.
type Outcome struct {
	Status    string
	ErrorKind string
}

// Succeeded is the outcome of an operation that returned no error.
func Succeeded() Outcome {
	return Outcome{Status: StatusSuccess, ErrorKind: errorKindNone}
}

// Failed is the outcome of an operation that failed with the given kind.
func Failed(kind string) Outcome {
	if kind == "" {
		kind = "Unknown"
	}
	return Outcome{Status: StatusError, ErrorKind: kind}
}

// BusinessMetrics records counts and durations of engine operations.
type BusinessMetrics interface {
	// RecordOperation counts one finished operation.
	// Domain is "crypto"; operation names follow the use case method
	// ("encrypt_file", "key_generate", "import_encrypted_data").
	RecordOperation(ctx context.Context, domain, operation string, outcome Outcome)

	// RecordDuration observes the operation latency in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, outcome Outcome)
}

type businessMetrics struct {
	operations metric.Int64Counter
	durations  metric.Float64Histogram
}

// NewBusinessMetrics creates the <namespace>_operations_total counter and the
// <namespace>_operation_duration_seconds histogram on meterProvider.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operations, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of engine operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durations, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of engine operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &businessMetrics{operations: operations, durations: durations}, nil
}

// outcomeAttributes is the label set shared by the counter and the histogram.
func outcomeAttributes(domain, operation string, outcome Outcome) metric.MeasurementOption {
	return metric.WithAttributeSet(attribute.NewSet(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", outcome.Status),
		attribute.String("error_kind", outcome.ErrorKind),
	))
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation string, outcome Outcome) {
	b.operations.Add(ctx, 1, outcomeAttributes(domain, operation, outcome))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	outcome Outcome,
) {
	b.durations.Record(ctx, duration.Seconds(), outcomeAttributes(domain, operation, outcome))
}

// NoOpBusinessMetrics discards every measurement. Used when METRICS_ENABLED is false.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(context.Context, string, string, Outcome) {}

func (n *NoOpBusinessMetrics) RecordDuration(context.Context, string, string, time.Duration, Outcome) {
}
