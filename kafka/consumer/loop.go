package consumer

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/kafkasample/errors"
	"github.com/kbukum/kafkasample/kafka"
	"github.com/kbukum/kafkasample/logger"
	"github.com/kbukum/kafkasample/observability"
	"github.com/kbukum/kafkasample/resilience"
)

// Handler processes one decoded record. A record is committed only after its
// handler returned nil.
type Handler[T any] func(ctx context.Context, rec kafka.ConsumeResult[T]) error

// LogHandler returns a handler that logs each record as format renders it.
func LogHandler[T any](log *logger.Logger, format func(T) string) Handler[T] {
	return func(_ context.Context, rec kafka.ConsumeResult[T]) error {
		log.Info(format(rec.Value), logger.RecordFields(rec.Message.Topic, rec.Message.Partition, rec.Message.Offset))
		return nil
	}
}

// Loop polls, decodes, processes and commits one record at a time.
type Loop[T any] struct {
	source  Source
	codec   kafka.Codec[T]
	handler Handler[T]
	cfg     Config
	state   *CommitState
	log     *logger.Logger
	metrics *observability.Metrics

	backoff  resilience.Backoff
	failures int
}

// LoopOption configures a Loop.
type LoopOption[T any] func(*Loop[T])

// WithMetrics records consume and commit outcomes on m.
func WithMetrics[T any](m *observability.Metrics) LoopOption[T] {
	return func(l *Loop[T]) { l.metrics = m }
}

// WithBackoff sets the wait after the n-th consecutive poll failure to
// n*base, capped at maxWait.
func WithBackoff[T any](base, maxWait time.Duration) LoopOption[T] {
	return func(l *Loop[T]) {
		l.backoff = resilience.Backoff{Initial: base, Max: maxWait}
	}
}

// WithCommitState shares a state across loops, for example to keep
// commits monotonic across a restart within the same process.
func WithCommitState[T any](s *CommitState) LoopOption[T] {
	return func(l *Loop[T]) { l.state = s }
}

// NewLoop creates a loop over source.
func NewLoop[T any](source Source, codec kafka.Codec[T], handler Handler[T], cfg Config, log *logger.Logger, opts ...LoopOption[T]) *Loop[T] {
	l := &Loop[T]{
		source:  source,
		codec:   codec,
		handler: handler,
		cfg:     cfg,
		state:   NewCommitState(),
		log:     log.WithComponent("kafka.consumer"),
		metrics: observability.NewNopMetrics(),
		backoff: resilience.Backoff{Initial: time.Second, Max: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the offsets this loop committed.
func (l *Loop[T]) State() *CommitState { return l.state }

// Run consumes until ctx is done or a record cannot be processed. A handler
// error, or a malformed record under MalformedHalt, stops the loop with
// StopFatal and leaves the record uncommitted.
func (l *Loop[T]) Run(ctx context.Context) kafka.LoopResult {
	l.log.Info("consumer loop started", map[string]interface{}{
		logger.FieldTopic:   l.cfg.Topic,
		logger.FieldGroupID: l.cfg.GroupID,
		"malformed_policy":  string(l.cfg.MalformedPolicy),
	})
	res := kafka.RunLoop(ctx, l.step)
	fields := map[string]interface{}{
		"reason": string(res.Reason),
		"polls":  res.Iterations,
	}
	if err := res.Error(); err != nil {
		l.log.Error("consumer loop stopped", logger.MergeWithError(fields, err))
	} else {
		l.log.Info("consumer loop stopped", fields)
	}
	return res
}

func (l *Loop[T]) step(ctx context.Context) error {
	msg, ok, err := l.source.Poll(ctx, l.cfg.PollTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return l.pollFailed(ctx, err)
	}
	l.failures = 0
	if !ok {
		return nil
	}
	return l.process(ctx, msg)
}

func (l *Loop[T]) pollFailed(ctx context.Context, err error) error {
	l.failures++
	l.log.Error("poll failed", map[string]interface{}{
		logger.FieldTopic: l.cfg.Topic,
		logger.FieldError: err,
		"failures":        l.failures,
	})
	l.metrics.RecordError(ctx, string(kafka.FromKafka(err, l.cfg.Topic).Code), "consumer")

	return resilience.Sleep(ctx, l.backoff.Delay(l.failures))
}

func (l *Loop[T]) process(ctx context.Context, msg kafka.Message) (err error) {
	fields := logger.RecordFields(msg.Topic, msg.Partition, msg.Offset)
	fields[logger.FieldKey] = msg.Key

	sctx, span := observability.StartSpan(ctx, observability.SpanConsume,
		attribute.String(observability.AttrDestination, msg.Topic),
		attribute.Int(observability.AttrPartition, msg.Partition),
		attribute.Int64(observability.AttrOffset, msg.Offset),
		attribute.String(observability.AttrMessageKey, msg.Key),
		attribute.String(observability.AttrConsumerGroup, l.cfg.GroupID),
	)
	defer func() { observability.EndSpan(span, err) }()

	value, derr := l.codec.Decode(msg.Value)
	if derr != nil {
		l.metrics.RecordConsume(sctx, msg.Topic, observability.StatusMalformed)
		if l.cfg.MalformedPolicy == MalformedHalt {
			l.log.Error("malformed record, stopping", logger.MergeWithError(fields, derr))
			return derr
		}
		l.log.Warn("malformed record skipped", logger.MergeWithError(fields, derr))
		l.commit(sctx, msg, fields)
		return nil
	}

	rec := kafka.ConsumeResult[T]{Value: value, Message: msg}
	if herr := l.handler(sctx, rec); herr != nil {
		l.metrics.RecordConsume(sctx, msg.Topic, observability.StatusFailed)
		l.log.Error("record processing failed", logger.MergeWithError(fields, herr))
		return errors.ProcessingFailed(msg.Topic, msg.Partition, msg.Offset, herr)
	}
	l.metrics.RecordConsume(sctx, msg.Topic, observability.StatusOK)

	l.commit(sctx, msg, fields)
	return nil
}

// commit acknowledges a processed record. It runs even when ctx was
// cancelled during processing, bounded by CommitTimeout. A failure is logged
// and the record will be read again after a restart.
func (l *Loop[T]) commit(ctx context.Context, msg kafka.Message, fields map[string]interface{}) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.cfg.CommitTimeout)
	defer cancel()

	cctx, span := observability.StartSpan(cctx, observability.SpanCommit,
		attribute.String(observability.AttrDestination, msg.Topic),
		attribute.Int(observability.AttrPartition, msg.Partition),
		attribute.Int64(observability.AttrOffset, msg.Offset),
		attribute.String(observability.AttrConsumerGroup, l.cfg.GroupID),
	)

	if err := l.source.Commit(cctx, msg); err != nil {
		cerr := errors.CommitFailed(msg.Topic, msg.Partition, msg.Offset, err)
		observability.EndSpan(span, cerr)
		l.metrics.RecordCommit(cctx, msg.Topic, observability.StatusFailed)
		l.metrics.RecordError(cctx, string(cerr.Code), "consumer")
		l.log.Error("offset commit failed", logger.MergeWithError(fields, cerr))
		return
	}
	observability.EndSpan(span, nil)
	l.metrics.RecordCommit(cctx, msg.Topic, observability.StatusOK)

	if !l.state.Advance(msg.Partition, msg.Offset) {
		prev, _ := l.state.Committed(msg.Partition)
		l.log.Warn("commit behind committed offset", fields, map[string]interface{}{"committed": prev})
		return
	}
	l.log.Info("offset committed", fields)
}
