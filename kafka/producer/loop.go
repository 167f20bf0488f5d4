package producer

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/kbukum/kafkasample/kafka"
	"github.com/kbukum/kafkasample/logger"
	"github.com/kbukum/kafkasample/observability"
)

// RecordSource generates the records of a batch.
type RecordSource[T any] interface {
	NextBatch(n int) []T
}

// Loop sends batches until cancelled: each cycle generates a batch, publishes
// its records one at a time and then waits on the pacer.
type Loop[T any] struct {
	producer   *Producer[T]
	source     RecordSource[T]
	pacer      Pacer
	topic      kafka.TopicSpec
	batchSize  int
	maxBatches int
	describe   func(T) map[string]interface{}
	log        *logger.Logger
	metrics    *observability.Metrics

	batches int
}

// LoopOption configures a Loop.
type LoopOption[T any] func(*Loop[T])

// WithDescribe adds record fields to the per-record log lines.
func WithDescribe[T any](fn func(T) map[string]interface{}) LoopOption[T] {
	return func(l *Loop[T]) { l.describe = fn }
}

// WithLoopMetrics records batch sizes on m.
func WithLoopMetrics[T any](m *observability.Metrics) LoopOption[T] {
	return func(l *Loop[T]) { l.metrics = m }
}

// NewLoop creates a loop publishing to the provisioned topic.
func NewLoop[T any](p *Producer[T], source RecordSource[T], topic kafka.TopicSpec, cfg Config, pacer Pacer, log *logger.Logger, opts ...LoopOption[T]) *Loop[T] {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	l := &Loop[T]{
		producer:   p,
		source:     source,
		pacer:      pacer,
		topic:      topic,
		batchSize:  batchSize,
		maxBatches: cfg.MaxBatches,
		describe:   func(T) map[string]interface{} { return nil },
		log:        log.WithComponent("kafka.producer"),
		metrics:    observability.NewNopMetrics(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// BatchSummary counts the outcomes of one batch.
type BatchSummary struct {
	Delivered int
	Failed    int
}

// Run sends batches until ctx is done, the pacer gives up or MaxBatches is
// reached.
func (l *Loop[T]) Run(ctx context.Context) kafka.LoopResult {
	l.log.Info("producer loop started", map[string]interface{}{
		logger.FieldTopic: l.topic.Name,
		logger.FieldBatch: l.batchSize,
	})
	res := kafka.RunLoop(ctx, l.cycle)
	l.log.Info("producer loop stopped", map[string]interface{}{
		"reason":  string(res.Reason),
		"batches": l.batches,
	})
	return res
}

func (l *Loop[T]) cycle(ctx context.Context) error {
	summary, err := l.SendBatch(ctx)
	l.batches++
	l.log.Info("batch sent", map[string]interface{}{
		logger.FieldTopic: l.topic.Name,
		"batch_number":    l.batches,
		"delivered":       summary.Delivered,
		"failed":          summary.Failed,
	})
	l.metrics.RecordBatch(ctx, l.topic.Name, summary.Delivered)
	if err != nil {
		return err
	}
	if l.maxBatches > 0 && l.batches >= l.maxBatches {
		return kafka.ErrLoopDone
	}
	if err := l.pacer.Wait(ctx); err != nil {
		if stderrors.Is(err, io.EOF) {
			return kafka.ErrLoopDone
		}
		return err
	}
	return nil
}

// SendBatch generates one batch and publishes it record by record. A failed
// record is logged and the next one is still sent. The only error returned is
// the context's, when it ends mid-batch.
func (l *Loop[T]) SendBatch(ctx context.Context) (BatchSummary, error) {
	var summary BatchSummary
	for _, rec := range l.source.NextBatch(l.batchSize) {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		report := l.producer.Publish(ctx, l.topic.Name, rec)
		fields := logger.Fields(
			logger.FieldTopic, report.Topic,
			logger.FieldKey, report.Key,
		)
		for k, v := range l.describe(rec) {
			fields[k] = v
		}
		if report.Delivered() {
			summary.Delivered++
			fields[logger.FieldPartition] = report.Partition
			fields[logger.FieldOffset] = report.Offset
			l.log.Info("delivered to "+report.Location(), fields)
			continue
		}
		summary.Failed++
		l.log.Error("delivery failed", logger.MergeWithError(fields, report.Err))
	}
	return summary, ctx.Err()
}
