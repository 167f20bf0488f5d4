package producer

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/kafkasample/errors"
	"github.com/kbukum/kafkasample/kafka"
	kafkatest "github.com/kbukum/kafkasample/kafka/testutil"
	"github.com/kbukum/kafkasample/logger"
	"github.com/kbukum/kafkasample/user"
)

var usersTopic = kafka.TopicSpec{Name: "users", Partitions: 1, ReplicationFactor: 1}

func newBroker(t *testing.T) *kafkatest.Broker {
	t.Helper()
	b := kafkatest.NewBroker()
	if err := b.CreateTopic(context.Background(), usersTopic); err != nil {
		t.Fatal(err)
	}
	return b
}

func newUserProducer(s Sender) *Producer[user.User] {
	return New[user.User](s, user.NewCodec(), user.Key, logger.NewNop())
}

func TestPublish_Delivered(t *testing.T) {
	b := newBroker(t)
	p := newUserProducer(b)
	u := user.User{ID: "52998224725", Name: "Ana Silva"}

	report := p.Publish(context.Background(), "users", u)
	if !report.Delivered() {
		t.Fatalf("report = %+v", report)
	}
	if report.Partition != 0 || report.Offset != 0 || report.Key != u.ID {
		t.Errorf("report = %+v", report)
	}

	msgs := b.Messages("users")
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}
	if msgs[0].Key != u.ID {
		t.Errorf("key = %q, want %q", msgs[0].Key, u.ID)
	}
	if string(msgs[0].Value) != `{"id":"52998224725","name":"Ana Silva"}` {
		t.Errorf("value = %s", msgs[0].Value)
	}
	if msgs[0].Headers[kafka.HeaderContentType] != kafka.ContentTypeJSON {
		t.Errorf("headers = %v", msgs[0].Headers)
	}
	if msgs[0].Headers[kafka.HeaderMessageID] == "" {
		t.Error("missing message-id header")
	}
}

func TestPublish_SerializationFailure(t *testing.T) {
	b := newBroker(t)
	p := newUserProducer(b)

	report := p.Publish(context.Background(), "users", user.User{Name: "x"})
	if report.Delivered() {
		t.Fatal("invalid user was delivered")
	}
	if !errors.IsCode(report.Err, errors.ErrCodeSerialization) {
		t.Errorf("Err = %v, want SERIALIZATION_FAILED", report.Err)
	}
	if len(b.Messages("users")) != 0 {
		t.Error("nothing should reach the broker")
	}
}

func TestPublish_SendFailure(t *testing.T) {
	b := newBroker(t)
	b.FailSends(func(int, kafka.Message) error { return kafkago.LeaderNotAvailable })
	p := newUserProducer(b)

	report := p.Publish(context.Background(), "users", user.NewGenerator(1).Next())
	if report.Status != kafka.StatusFailed {
		t.Fatalf("Status = %s", report.Status)
	}
	if !errors.IsCode(report.Err, errors.ErrCodeDeliveryFailed) {
		t.Errorf("Err = %v, want DELIVERY_FAILED", report.Err)
	}
	if !stderrors.Is(report.Err, kafkago.LeaderNotAvailable) {
		t.Errorf("Err = %v does not wrap the broker error", report.Err)
	}
	if report.Offset != -1 {
		t.Errorf("Offset = %d, want -1 on failure", report.Offset)
	}
}

func TestPublish_CancelledContext(t *testing.T) {
	b := newBroker(t)
	p := newUserProducer(b)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := p.Publish(ctx, "users", user.NewGenerator(1).Next())
	if report.Delivered() || !stderrors.Is(report.Err, context.Canceled) {
		t.Errorf("report = %+v", report)
	}
}

type recordingSource struct {
	gen     *user.Generator
	batches int
}

func (s *recordingSource) NextBatch(n int) []user.User {
	s.batches++
	return s.gen.NextBatch(n)
}

func noPause() Pacer {
	return PacerFunc(func(ctx context.Context) error { return ctx.Err() })
}

func TestLoop_SendsBatchesAndStops(t *testing.T) {
	b := newBroker(t)
	src := &recordingSource{gen: user.NewGenerator(3)}
	l := NewLoop[user.User](newUserProducer(b), src, usersTopic, Config{BatchSize: 10, MaxBatches: 3}, noPause(), logger.NewNop())

	res := l.Run(context.Background())
	if res.Reason != kafka.StopCompleted || res.Error() != nil {
		t.Fatalf("result = %+v", res)
	}
	if src.batches != 3 {
		t.Errorf("batches = %d, want 3", src.batches)
	}
	msgs := b.Messages("users")
	if len(msgs) != 30 {
		t.Fatalf("messages = %d, want 30", len(msgs))
	}
	codec := user.NewCodec()
	for i, m := range msgs {
		if m.Offset != int64(i) {
			t.Errorf("message %d has offset %d", i, m.Offset)
		}
		u, err := codec.Decode(m.Value)
		if err != nil {
			t.Fatalf("decode %d: %v", i, err)
		}
		if m.Key != u.ID {
			t.Errorf("key %q != id %q", m.Key, u.ID)
		}
	}
}

func TestLoop_FailedSendDoesNotAbortBatch(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, "test", &buf)

	b := newBroker(t)
	b.FailSends(func(n int, _ kafka.Message) error {
		if n == 3 || n == 7 {
			return kafkago.RequestTimedOut
		}
		return nil
	})
	src := &recordingSource{gen: user.NewGenerator(5)}
	l := NewLoop[user.User](newUserProducer(b), src, usersTopic, Config{BatchSize: 10}, noPause(), log)

	summary, err := l.SendBatch(context.Background())
	if err != nil {
		t.Fatalf("SendBatch() error = %v", err)
	}
	if summary.Delivered != 8 || summary.Failed != 2 {
		t.Errorf("summary = %+v, want 8 delivered, 2 failed", summary)
	}
	if len(b.Messages("users")) != 8 {
		t.Errorf("messages = %d, want 8", len(b.Messages("users")))
	}
	if n := strings.Count(buf.String(), "delivery failed"); n != 2 {
		t.Errorf("logged %d failures, want 2", n)
	}
	if !strings.Contains(buf.String(), "delivered to users [0] @0") {
		t.Errorf("missing delivery location in logs: %s", buf.String())
	}
}

func TestLoop_CancelStopsMidBatch(t *testing.T) {
	b := newBroker(t)
	ctx, cancel := context.WithCancel(context.Background())
	b.FailSends(func(n int, _ kafka.Message) error {
		if n == 4 {
			cancel()
		}
		return nil
	})
	src := &recordingSource{gen: user.NewGenerator(9)}
	l := NewLoop[user.User](newUserProducer(b), src, usersTopic, Config{BatchSize: 10}, noPause(), logger.NewNop())

	res := l.Run(ctx)
	if res.Reason != kafka.StopCancelled {
		t.Fatalf("Reason = %s, want cancelled", res.Reason)
	}
	if n := len(b.Messages("users")); n != 4 {
		t.Errorf("messages = %d, want 4", n)
	}
}

func TestLoop_PacerEOFCompletes(t *testing.T) {
	b := newBroker(t)
	var out bytes.Buffer
	pacer := PromptPacer(strings.NewReader("\n"), &out, 10)
	src := &recordingSource{gen: user.NewGenerator(2)}
	l := NewLoop[user.User](newUserProducer(b), src, usersTopic, Config{BatchSize: 10}, pacer, logger.NewNop())

	res := l.Run(context.Background())
	if res.Reason != kafka.StopCompleted {
		t.Fatalf("result = %+v", res)
	}
	if src.batches != 2 {
		t.Errorf("batches = %d, want 2", src.batches)
	}
	if strings.Count(out.String(), "Press enter to send another batch of 10 users...") != 2 {
		t.Errorf("prompt output = %q", out.String())
	}
}

func TestIntervalPacer(t *testing.T) {
	if err := IntervalPacer(time.Millisecond).Wait(context.Background()); err != nil {
		t.Errorf("Wait() = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := IntervalPacer(time.Hour).Wait(ctx); !stderrors.Is(err, context.Canceled) {
		t.Errorf("Wait() = %v, want canceled", err)
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults(map[string]string{"acks": "1", "compression.type": "lz4", "message.timeout.ms": "2000"})
	if cfg.Name != "users" || cfg.Partitions != 1 || cfg.ReplicationFactor != 1 {
		t.Errorf("topic = %+v", cfg.TopicSpec)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("BatchSize = %d", cfg.BatchSize)
	}
	if cfg.Acks() != 1 || cfg.Compression != "lz4" || cfg.SendTimeout != 2*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	bad := cfg
	bad.Compression = "brotli"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown compression")
	}
	bad = cfg
	bad.RequiredAcks = intPtr(3)
	if err := bad.Validate(); err == nil {
		t.Error("expected error for bad acks")
	}
}

func TestConfig_RequiredAcks(t *testing.T) {
	tests := []struct {
		name  string
		acks  *int
		props map[string]string
		want  int
	}{
		{"unset", nil, nil, -1},
		{"explicit none", intPtr(0), map[string]string{"acks": "all"}, 0},
		{"explicit leader", intPtr(1), nil, 1},
		{"property all", nil, map[string]string{"acks": "all"}, -1},
		{"property none", nil, map[string]string{"acks": "0"}, 0},
		{"property garbage", nil, map[string]string{"acks": "some"}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{RequiredAcks: tt.acks}
			cfg.ApplyDefaults(tt.props)
			if got := cfg.Acks(); got != tt.want {
				t.Errorf("Acks() = %d, want %d", got, tt.want)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}
