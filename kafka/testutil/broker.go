package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/kafkasample/kafka"
)

// SendFailure decides whether the n-th send (starting at 1) fails.
type SendFailure func(n int, msg kafka.Message) error

// CommitFailure decides whether a commit of msg fails.
type CommitFailure func(group string, msg kafka.Message) error

// PollFailure decides whether the n-th poll of a group fails.
type PollFailure func(group string, n int) error

type topicLog struct {
	spec       kafka.TopicSpec
	partitions [][]kafka.Message
}

type groupKey struct {
	group string
	topic string
}

// Commit is one accepted offset commit. Offset is the next offset to read,
// as brokers store it.
type Commit struct {
	Group     string
	Topic     string
	Partition int
	Offset    int64
}

// Broker is an in-memory broker with per-partition logs and per-group
// committed offsets. It can stand in for the admin client, the sender and the
// group reader.
type Broker struct {
	mu        sync.Mutex
	topics    map[string]*topicLog
	committed map[groupKey]map[int]int64
	commits   []Commit
	balancer  kafkago.Balancer
	notify    chan struct{}
	started   bool

	createErr  error
	sendFail   SendFailure
	commitFail CommitFailure
	pollFail   PollFailure
	sends      int
	polls      map[string]int
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	b := &Broker{balancer: &kafkago.Hash{}}
	b.reset()
	return b
}

func (b *Broker) reset() {
	b.topics = make(map[string]*topicLog)
	b.committed = make(map[groupKey]map[int]int64)
	b.commits = nil
	b.notify = make(chan struct{})
	b.createErr = nil
	b.sendFail = nil
	b.commitFail = nil
	b.pollFail = nil
	b.sends = 0
	b.polls = make(map[string]int)
}

// FailCreate makes every CreateTopic call return err. Nil clears it.
func (b *Broker) FailCreate(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createErr = err
}

// FailSends installs a send failure rule. Nil clears it.
func (b *Broker) FailSends(fn SendFailure) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sendFail = fn
}

// FailCommits installs a commit failure rule. Nil clears it.
func (b *Broker) FailCommits(fn CommitFailure) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.commitFail = fn
}

// FailPolls installs a poll failure rule. Nil clears it.
func (b *Broker) FailPolls(fn PollFailure) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pollFail = fn
}

// CreateTopic creates the topic, or returns kafkago.TopicAlreadyExists.
func (b *Broker) CreateTopic(ctx context.Context, spec kafka.TopicSpec) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.createErr != nil {
		return b.createErr
	}
	if _, ok := b.topics[spec.Name]; ok {
		return kafkago.TopicAlreadyExists
	}
	if spec.Partitions < 1 {
		return kafkago.InvalidPartitionNumber
	}
	b.topics[spec.Name] = &topicLog{
		spec:       spec,
		partitions: make([][]kafka.Message, spec.Partitions),
	}
	return nil
}

// Send appends msg to the partition its key hashes to.
func (b *Broker) Send(ctx context.Context, msg kafka.Message) (kafka.Message, error) {
	if err := ctx.Err(); err != nil {
		return msg, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sends++
	if b.sendFail != nil {
		if err := b.sendFail(b.sends, msg); err != nil {
			return msg, err
		}
	}
	t, ok := b.topics[msg.Topic]
	if !ok {
		return msg, kafkago.UnknownTopicOrPartition
	}
	ids := make([]int, len(t.partitions))
	for i := range ids {
		ids[i] = i
	}
	msg.Partition = b.balancer.Balance(msg.ToKafkaMessage(), ids...)
	return b.appendLocked(t, msg), nil
}

// Append writes a raw record to a partition, bypassing the producer. Tests
// use it to inject payloads the codec rejects.
func (b *Broker) Append(topic string, partition int, key string, value []byte) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.topics[topic]
	if !ok || partition < 0 || partition >= len(t.partitions) {
		return -1, kafkago.UnknownTopicOrPartition
	}
	msg := b.appendLocked(t, kafka.Message{Topic: topic, Partition: partition, Key: key, Value: value})
	return msg.Offset, nil
}

func (b *Broker) appendLocked(t *topicLog, msg kafka.Message) kafka.Message {
	msg.Offset = int64(len(t.partitions[msg.Partition]))
	msg.Timestamp = time.Now()
	t.partitions[msg.Partition] = append(t.partitions[msg.Partition], msg)
	close(b.notify)
	b.notify = make(chan struct{})
	return msg
}

// Topic returns the spec of a topic.
func (b *Broker) Topic(name string) (kafka.TopicSpec, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.topics[name]
	if !ok {
		return kafka.TopicSpec{}, false
	}
	return t.spec, true
}

// Messages returns every record of a topic ordered by partition and offset.
func (b *Broker) Messages(topic string) []kafka.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.topics[topic]
	if !ok {
		return nil
	}
	var out []kafka.Message
	for _, p := range t.partitions {
		out = append(out, p...)
	}
	return out
}

// Committed returns the committed offset of a partition for a group: the
// offset of the next record the group will read.
func (b *Broker) Committed(group, topic string, partition int) (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	off, ok := b.committed[groupKey{group, topic}][partition]
	return off, ok
}

// Commits returns every accepted commit in order.
func (b *Broker) Commits() []Commit {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Commit(nil), b.commits...)
}

// Consumer joins group on topic. Reading starts at the committed offsets of
// the group, or at the earliest offset for partitions without one.
func (b *Broker) Consumer(topic, group string) *Consumer {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := &Consumer{broker: b, topic: topic, group: group, position: make(map[int]int64), last: -1}
	for p, off := range b.committed[groupKey{group, topic}] {
		c.position[p] = off
	}
	return c
}

// nextLocked returns the first unread record, scanning partitions in order from
// the one after last.
func (b *Broker) nextLocked(c *Consumer) (kafka.Message, bool) {
	t, ok := b.topics[c.topic]
	if !ok {
		return kafka.Message{}, false
	}
	n := len(t.partitions)
	for i := 0; i < n; i++ {
		p := (c.last + 1 + i) % n
		pos := c.position[p]
		if pos < int64(len(t.partitions[p])) {
			c.position[p] = pos + 1
			c.last = p
			return t.partitions[p][pos], true
		}
	}
	return kafka.Message{}, false
}

func (b *Broker) commit(group string, msg kafka.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.commitFail != nil {
		if err := b.commitFail(group, msg); err != nil {
			return err
		}
	}
	key := groupKey{group, msg.Topic}
	if b.committed[key] == nil {
		b.committed[key] = make(map[int]int64)
	}
	b.committed[key][msg.Partition] = msg.Offset + 1
	b.commits = append(b.commits, Commit{Group: group, Topic: msg.Topic, Partition: msg.Partition, Offset: msg.Offset + 1})
	return nil
}

// Snapshot is a copy of the broker state.
type Snapshot struct {
	Topics    map[string][][]kafka.Message
	Specs     map[string]kafka.TopicSpec
	Committed map[string]map[int]int64
}

func (b *Broker) snapshot() Snapshot {
	s := Snapshot{
		Topics:    make(map[string][][]kafka.Message, len(b.topics)),
		Specs:     make(map[string]kafka.TopicSpec, len(b.topics)),
		Committed: make(map[string]map[int]int64, len(b.committed)),
	}
	for name, t := range b.topics {
		parts := make([][]kafka.Message, len(t.partitions))
		for i, p := range t.partitions {
			parts[i] = append([]kafka.Message(nil), p...)
		}
		s.Topics[name] = parts
		s.Specs[name] = t.spec
	}
	for k, offsets := range b.committed {
		cp := make(map[int]int64, len(offsets))
		for p, off := range offsets {
			cp[p] = off
		}
		s.Committed[k.group+"/"+k.topic] = cp
	}
	return s
}

func (b *Broker) restore(s Snapshot) error {
	topics := make(map[string]*topicLog, len(s.Topics))
	for name, parts := range s.Topics {
		spec, ok := s.Specs[name]
		if !ok {
			return fmt.Errorf("snapshot has no spec for topic %s", name)
		}
		cp := make([][]kafka.Message, len(parts))
		for i, p := range parts {
			cp[i] = append([]kafka.Message(nil), p...)
		}
		topics[name] = &topicLog{spec: spec, partitions: cp}
	}
	committed := make(map[groupKey]map[int]int64, len(s.Committed))
	for k := range s.Committed {
		group, topic, ok := strings.Cut(k, "/")
		if !ok {
			return fmt.Errorf("bad committed key %q", k)
		}
		gk := groupKey{group: group, topic: topic}
		offsets := make(map[int]int64, len(s.Committed[k]))
		for p, off := range s.Committed[k] {
			offsets[p] = off
		}
		committed[gk] = offsets
	}
	b.topics = topics
	b.committed = committed
	return nil
}
