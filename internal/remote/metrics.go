package remote

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments, initialised once via InitMetrics().
var (
	keysCounter     metric.Int64Counter
	evalCounter     metric.Int64Counter
	engineErrors    metric.Int64Counter
	requestErrors   metric.Int64Counter
	batchHistogram  metric.Float64Histogram
	lastResultGauge metric.Float64Gauge
)

// InitMetrics registers the OTel instruments for key sessions. Call it once
// at startup, after the meter provider is installed.
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	keysCounter, err = meter.Int64Counter("calculator.keys.total",
		metric.WithDescription("Keys applied to calculator sessions, by action"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return fmt.Errorf("creating keys counter: %w", err)
	}

	evalCounter, err = meter.Int64Counter("calculator.evaluations.total",
		metric.WithDescription("Successful expression evaluations"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return fmt.Errorf("creating evaluations counter: %w", err)
	}

	engineErrors, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Calculator engine errors, by kind"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating engine error counter: %w", err)
	}

	requestErrors, err = meter.Int64Counter("calculator.request_errors.total",
		metric.WithDescription("Rejected session API requests, by kind"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating request error counter: %w", err)
	}

	batchHistogram, err = meter.Float64Histogram("calculator.batch.duration",
		metric.WithDescription("Time to apply one batch of keys in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating batch histogram: %w", err)
	}

	lastResultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("The most recent evaluation result"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	return nil
}
