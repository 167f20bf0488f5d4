package consumer

import (
	"context"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/kafkasample/kafka"
	"github.com/kbukum/kafkasample/logger"
)

// Source is a group subscription: poll one record, commit it, leave.
type Source interface {
	// Poll waits up to timeout for the next record. ok is false when none
	// arrived in time; that is not an error.
	Poll(ctx context.Context, timeout time.Duration) (msg kafka.Message, ok bool, err error)
	// Commit stores the position after msg for the group.
	Commit(ctx context.Context, msg kafka.Message) error
	Close() error
}

// Consumer reads one topic as a member of a consumer group with a kafka-go
// Reader. Offsets are committed only by Commit.
type Consumer struct {
	reader  *kafkago.Reader
	topic   string
	groupID string
	log     *logger.Logger
}

var _ Source = (*Consumer)(nil)

// NewConsumer subscribes to ccfg.Topic as ccfg.GroupID. A group without a
// committed offset starts at the earliest record.
func NewConsumer(cfg *kafka.Config, ccfg Config, log *logger.Logger) (*Consumer, error) {
	dialer, err := kafka.NewDialer(cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer dialer: %w", err)
	}

	clog := log.WithComponent("kafka.consumer")
	errorLogger := kafkago.LoggerFunc(func(msg string, args ...interface{}) {
		clog.Printf("Consumer Error: "+msg, args...)
	})

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:           cfg.Brokers,
		Topic:             ccfg.Topic,
		GroupID:           ccfg.GroupID,
		Dialer:            dialer,
		StartOffset:       kafkago.FirstOffset,
		CommitInterval:    0,
		MinBytes:          ccfg.MinBytes,
		MaxBytes:          ccfg.MaxBytes,
		MaxWait:           ccfg.MaxWait,
		SessionTimeout:    ccfg.SessionTimeout,
		HeartbeatInterval: ccfg.HeartbeatInterval,
		RebalanceTimeout:  ccfg.RebalanceTimeout,
		ErrorLogger:       errorLogger,
	})

	clog.Info("Kafka consumer initialized", map[string]interface{}{
		logger.FieldTopic:   ccfg.Topic,
		logger.FieldGroupID: ccfg.GroupID,
		"brokers":           cfg.Brokers,
	})

	return &Consumer{
		reader:  reader,
		topic:   ccfg.Topic,
		groupID: ccfg.GroupID,
		log:     clog,
	}, nil
}

// Poll fetches the next record without committing it.
func (c *Consumer) Poll(ctx context.Context, timeout time.Duration) (kafka.Message, bool, error) {
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := c.reader.FetchMessage(pctx)
	if err != nil {
		if ctx.Err() != nil {
			return kafka.Message{}, false, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return kafka.Message{}, false, nil
		}
		return kafka.Message{}, false, err
	}
	return kafka.FromKafkaMessage(msg), true, nil
}

// Commit synchronously commits msg. The broker stores msg.Offset+1.
func (c *Consumer) Commit(ctx context.Context, msg kafka.Message) error {
	return c.reader.CommitMessages(ctx, msg.ToKafkaMessage())
}

// Topic returns the consumer's topic.
func (c *Consumer) Topic() string { return c.topic }

// GroupID returns the consumer's group ID.
func (c *Consumer) GroupID() string { return c.groupID }

// Stats returns reader statistics.
func (c *Consumer) Stats() kafka.ReaderMetrics {
	return kafka.CollectReaderMetrics(c.reader.Stats())
}

// Close leaves the group and shuts down the reader.
func (c *Consumer) Close() error {
	c.log.Info("Kafka consumer closing", c.Stats().Fields())
	return c.reader.Close()
}
