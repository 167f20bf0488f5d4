package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/kafkasample/logger"
)

// Status values used as the "status" attribute.
const (
	StatusOK        = "ok"
	StatusFailed    = "failed"
	StatusMalformed = "malformed"
	StatusSkipped   = "skipped"
)

// InitMeter installs a global meter provider exporting over OTLP/HTTP.
// The caller shuts it down on exit.
func InitMeter(ctx context.Context, cfg Config, res Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	r, err := newResource(res)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(r),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.MetricInterval.String(),
	))
	return mp, nil
}

// Meter returns the package meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the Kafka client instruments.
type Metrics struct {
	produced  metric.Int64Counter
	consumed  metric.Int64Counter
	commits   metric.Int64Counter
	errors    metric.Int64Counter
	sendTime  metric.Float64Histogram
	batchSize metric.Int64Histogram
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.produced, err = meter.Int64Counter("kafka.messages.produced",
		metric.WithDescription("Records sent, by delivery status")); err != nil {
		return nil, fmt.Errorf("creating kafka.messages.produced: %w", err)
	}
	if m.consumed, err = meter.Int64Counter("kafka.messages.consumed",
		metric.WithDescription("Records polled, by processing outcome")); err != nil {
		return nil, fmt.Errorf("creating kafka.messages.consumed: %w", err)
	}
	if m.commits, err = meter.Int64Counter("kafka.commits",
		metric.WithDescription("Offset commits, by status")); err != nil {
		return nil, fmt.Errorf("creating kafka.commits: %w", err)
	}
	if m.errors, err = meter.Int64Counter("kafka.errors",
		metric.WithDescription("Client errors, by code and component")); err != nil {
		return nil, fmt.Errorf("creating kafka.errors: %w", err)
	}
	if m.sendTime, err = meter.Float64Histogram("kafka.produce.duration",
		metric.WithDescription("Time from send to delivery report"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating kafka.produce.duration: %w", err)
	}
	if m.batchSize, err = meter.Int64Histogram("kafka.produce.batch_size",
		metric.WithDescription("Records delivered per batch")); err != nil {
		return nil, fmt.Errorf("creating kafka.produce.batch_size: %w", err)
	}
	return &m, nil
}

// NewNopMetrics returns instruments bound to the global meter, which is a
// no-op until InitMeter runs. Instrument creation on it cannot fail.
func NewNopMetrics() *Metrics {
	m, _ := NewMetrics(Meter())
	return m
}

// RecordDelivery records one delivery report.
func (m *Metrics) RecordDelivery(ctx context.Context, topic, status string, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("topic", topic),
		attribute.String("status", status),
	)
	m.produced.Add(ctx, 1, attrs)
	m.sendTime.Record(ctx, d.Seconds(), attrs)
}

// RecordBatch records how many records of a batch were delivered.
func (m *Metrics) RecordBatch(ctx context.Context, topic string, delivered int) {
	m.batchSize.Record(ctx, int64(delivered), metric.WithAttributes(attribute.String("topic", topic)))
}

// RecordConsume records one polled record and what happened to it.
func (m *Metrics) RecordConsume(ctx context.Context, topic, status string) {
	m.consumed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("topic", topic),
		attribute.String("status", status),
	))
}

// RecordCommit records one offset commit attempt.
func (m *Metrics) RecordCommit(ctx context.Context, topic, status string) {
	m.commits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("topic", topic),
		attribute.String("status", status),
	))
}

// RecordError records an error by code and component.
func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}
