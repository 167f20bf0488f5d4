package admin

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/kafkasample/errors"
	"github.com/kbukum/kafkasample/kafka"
	"github.com/kbukum/kafkasample/logger"
	"github.com/kbukum/kafkasample/observability"
)

// TopicCreator is the administrative operation the provisioner needs.
// Implementations return an error recognised by kafka.IsTopicAlreadyExists
// when the topic is already there.
type TopicCreator interface {
	CreateTopic(ctx context.Context, spec kafka.TopicSpec) error
}

// Outcome tells what EnsureTopic found.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeExisted Outcome = "existed"
)

// Provisioner makes sure topics exist before production starts.
type Provisioner struct {
	creator TopicCreator
	log     *logger.Logger
	timeout time.Duration
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithTimeout bounds each create request. Zero leaves ctx as is.
func WithTimeout(d time.Duration) Option {
	return func(p *Provisioner) { p.timeout = d }
}

// NewProvisioner creates a provisioner over creator.
func NewProvisioner(creator TopicCreator, log *logger.Logger, opts ...Option) *Provisioner {
	p := &Provisioner{
		creator: creator,
		log:     log.WithComponent("kafka.admin"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EnsureTopic creates the topic described by spec. An already existing topic
// is logged and reported as OutcomeExisted with a nil error. Every other
// failure is returned as PROVISIONING_FAILED.
func (p *Provisioner) EnsureTopic(ctx context.Context, spec kafka.TopicSpec) (outcome Outcome, err error) {
	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return "", errors.ProvisioningFailed(spec.Name, err)
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanCreateTopic,
		attribute.String(observability.AttrDestination, spec.Name),
		attribute.Int("messaging.kafka.topic.partitions", spec.Partitions),
		attribute.Int("messaging.kafka.topic.replication_factor", spec.ReplicationFactor),
	)
	defer func() { observability.EndSpan(span, err) }()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	fields := map[string]interface{}{
		logger.FieldTopic:    spec.Name,
		"partitions":         spec.Partitions,
		"replication_factor": spec.ReplicationFactor,
	}

	cerr := p.creator.CreateTopic(ctx, spec)
	switch {
	case cerr == nil:
		p.log.Info("topic created", fields)
		return OutcomeCreated, nil
	case kafka.IsTopicAlreadyExists(cerr) || errors.IsCode(cerr, errors.ErrCodeAlreadyExists):
		p.log.Info("topic already exists", fields)
		return OutcomeExisted, nil
	default:
		p.log.Error("topic provisioning failed", logger.MergeWithError(fields, cerr))
		return "", errors.ProvisioningFailed(spec.Name, kafka.FromKafka(cerr, spec.Name))
	}
}
