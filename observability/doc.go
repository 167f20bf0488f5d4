// Package observability wires OpenTelemetry tracing and metrics.
//
// Exporters are OTLP over HTTP and only started when telemetry is enabled.
// Spans and instruments are always safe to use: without an initialized
// provider they go to the global no-op implementations.
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanProduce)
//	defer span.End()
//
//	metrics, err := observability.NewMetrics(observability.Meter())
//	metrics.RecordDelivery(ctx, topic, observability.StatusOK, d)
package observability
