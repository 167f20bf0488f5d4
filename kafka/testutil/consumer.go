package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kbukum/kafkasample/kafka"
)

// ErrClosed is returned by a closed Consumer.
var ErrClosed = errors.New("testutil: consumer closed")

// Consumer is a group member reading one topic from a Broker. Reading
// positions are local; only commits reach the broker, so a new Consumer of
// the same group resumes from the last commit like a restarted process.
type Consumer struct {
	broker *Broker
	topic  string
	group  string

	mu       sync.Mutex
	position map[int]int64
	last     int
	closed   bool
}

// Poll returns the next record, waiting up to timeout for one to arrive.
func (c *Consumer) Poll(ctx context.Context, timeout time.Duration) (kafka.Message, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		msg, ok, wait, err := c.tryPoll()
		if err != nil || ok {
			return msg, ok, err
		}
		select {
		case <-ctx.Done():
			return kafka.Message{}, false, ctx.Err()
		case <-timer.C:
			return kafka.Message{}, false, nil
		case <-wait:
		}
	}
}

func (c *Consumer) tryPoll() (kafka.Message, bool, <-chan struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return kafka.Message{}, false, nil, ErrClosed
	}

	b := c.broker
	b.mu.Lock()
	defer b.mu.Unlock()
	b.polls[c.group]++
	if b.pollFail != nil {
		if err := b.pollFail(c.group, b.polls[c.group]); err != nil {
			return kafka.Message{}, false, nil, err
		}
	}
	msg, ok := b.nextLocked(c)
	return msg, ok, b.notify, nil
}

// Commit stores the offset after msg as the group's position.
func (c *Consumer) Commit(ctx context.Context, msg kafka.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return c.broker.commit(c.group, msg)
}

// Close leaves the group. Uncommitted progress is lost.
func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}
