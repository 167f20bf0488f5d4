package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/kafkasample/logger"
)

const instrumentationName = "github.com/kbukum/kafkasample"

// Span names.
const (
	SpanCreateTopic = "kafka.create_topic"
	SpanProduce     = "kafka.produce"
	SpanConsume     = "kafka.consume"
	SpanCommit      = "kafka.commit"
)

// Attribute keys.
const (
	AttrMessagingSystem = "messaging.system"
	AttrDestination     = "messaging.destination.name"
	AttrPartition       = "messaging.kafka.destination.partition"
	AttrOffset          = "messaging.kafka.message.offset"
	AttrMessageKey      = "messaging.kafka.message.key"
	AttrConsumerGroup   = "messaging.kafka.consumer.group"
)

// InitTracer installs a global tracer provider exporting over OTLP/HTTP.
// The caller shuts it down on exit.
func InitTracer(ctx context.Context, cfg Config, res Resource) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	r, err := newResource(res)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("tracer initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"sample_rate", cfg.SampleRate,
	))
	return tp, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	}
}

func newResource(res Resource) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(res.ServiceName),
			semconv.ServiceVersion(res.ServiceVersion),
			attribute.String("deployment.environment", res.Environment),
		),
	)
}

// Tracer returns the package tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartSpan starts a Kafka span tagged with the messaging system.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String(AttrMessagingSystem, "kafka"))
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err, if any, and ends span.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
