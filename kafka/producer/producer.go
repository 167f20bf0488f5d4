package producer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/kafkasample/errors"
	"github.com/kbukum/kafkasample/kafka"
	"github.com/kbukum/kafkasample/logger"
	"github.com/kbukum/kafkasample/observability"
)

// KeyFunc derives the message key from a record. It must be deterministic so
// consumers can look records up by key without decoding the value.
type KeyFunc[T any] func(T) string

// Producer publishes single records of type T and reports each outcome.
type Producer[T any] struct {
	sender  Sender
	codec   kafka.Codec[T]
	key     KeyFunc[T]
	log     *logger.Logger
	metrics *observability.Metrics
	now     func() time.Time
	newID   func() string
}

// Option configures a Producer.
type Option[T any] func(*Producer[T])

// WithMetrics records delivery outcomes on m.
func WithMetrics[T any](m *observability.Metrics) Option[T] {
	return func(p *Producer[T]) { p.metrics = m }
}

// New creates a producer that encodes records with codec and sends them
// through sender.
func New[T any](sender Sender, codec kafka.Codec[T], key KeyFunc[T], log *logger.Logger, opts ...Option[T]) *Producer[T] {
	p := &Producer[T]{
		sender:  sender,
		codec:   codec,
		key:     key,
		log:     log.WithComponent("kafka.producer"),
		metrics: observability.NewNopMetrics(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish encodes value, sends it to topic and waits for the delivery report.
// It never returns an error: a failure is reported with StatusFailed and the
// reason in Err, so the caller can go on with the next record.
func (p *Producer[T]) Publish(ctx context.Context, topic string, value T) kafka.DeliveryReport {
	start := p.now()
	key := p.key(value)
	report := kafka.DeliveryReport{Topic: topic, Key: key, Partition: -1, Offset: -1}

	ctx, span := observability.StartSpan(ctx, observability.SpanProduce,
		attribute.String(observability.AttrDestination, topic),
		attribute.String(observability.AttrMessageKey, key),
	)

	report = p.send(ctx, report, value)
	report.Duration = p.now().Sub(start)

	if report.Delivered() {
		span.SetAttributes(
			attribute.Int(observability.AttrPartition, report.Partition),
			attribute.Int64(observability.AttrOffset, report.Offset),
		)
		p.metrics.RecordDelivery(ctx, topic, observability.StatusOK, report.Duration)
	} else {
		p.metrics.RecordDelivery(ctx, topic, observability.StatusFailed, report.Duration)
		if appErr, ok := errors.AsAppError(report.Err); ok {
			p.metrics.RecordError(ctx, string(appErr.Code), "producer")
		}
	}
	observability.EndSpan(span, report.Err)
	return report
}

func (p *Producer[T]) send(ctx context.Context, report kafka.DeliveryReport, value T) kafka.DeliveryReport {
	fail := func(err error) kafka.DeliveryReport {
		report.Status = kafka.StatusFailed
		report.Err = err
		return report
	}

	payload, err := p.codec.Encode(value)
	if err != nil {
		return fail(err)
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	msg := kafka.Message{
		Topic: report.Topic,
		Key:   report.Key,
		Value: payload,
		Headers: map[string]string{
			kafka.HeaderContentType: kafka.ContentTypeJSON,
			kafka.HeaderMessageID:   p.newID(),
		},
	}
	sent, err := p.sender.Send(ctx, msg)
	if err != nil {
		if ctx.Err() != nil {
			return fail(err)
		}
		return fail(errors.DeliveryFailed(report.Topic, kafka.FromKafka(err, report.Topic)))
	}

	report.Status = kafka.StatusDelivered
	report.Partition = sent.Partition
	report.Offset = sent.Offset
	return report
}
