package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/kbukum/kafkasample/component"
	"github.com/kbukum/kafkasample/logger"
)

// Component owns the broker clients of a process. Clients are added before
// Start and closed on Stop in reverse order.
type Component struct {
	cfg     Config
	role    Role
	log     *logger.Logger
	closers []namedCloser
	topics  []string
	mu      sync.Mutex
	running bool

	// dial is replaced in tests.
	dial func(ctx context.Context, cfg *Config) error
}

type namedCloser struct {
	name string
	c    io.Closer
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates the broker component for a client role.
func NewComponent(cfg Config, role Role, log *logger.Logger) *Component {
	return &Component{
		cfg:  cfg,
		role: role,
		log:  log.WithComponent("kafka"),
		dial: dialBroker,
	}
}

// AddCloser registers a client to close on Stop.
func (c *Component) AddCloser(name string, closer io.Closer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closers = append(c.closers, namedCloser{name: name, c: closer})
}

// AddTopic records a topic the process works with, for Describe.
func (c *Component) AddTopic(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics = append(c.topics, topic)
}

// Name returns the component name.
func (c *Component) Name() string { return "kafka" }

// Start marks the component running. The clients connect lazily.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil
	}
	c.running = true
	c.log.Info("Kafka component started", map[string]interface{}{
		"brokers": c.cfg.Brokers,
		"role":    string(c.role),
	})
	return nil
}

// Stop closes every registered client.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return nil
	}
	c.log.Info("Kafka component stopping")

	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		nc := c.closers[i]
		if err := nc.c.Close(); err != nil {
			c.log.Warn("Failed to close kafka client", map[string]interface{}{
				"client": nc.name,
				"error":  err,
			})
			errs = append(errs, fmt.Errorf("%s: %w", nc.name, err))
		}
	}
	c.closers = nil
	c.running = false
	return errors.Join(errs...)
}

// Health checks broker connectivity by dialling the first broker.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.Lock()
	running := c.running
	cfg := c.cfg
	c.mu.Unlock()

	if !running {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "kafka not started"}
	}
	if len(cfg.Brokers) == 0 {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "no brokers configured"}
	}
	if err := c.dial(ctx, &cfg); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns infrastructure summary info for the startup log.
func (c *Component) Describe() component.Description {
	c.mu.Lock()
	defer c.mu.Unlock()

	details := fmt.Sprintf("brokers=%s role=%s", strings.Join(c.cfg.Brokers, ","), c.role)
	if len(c.topics) > 0 {
		details += " topics=" + strings.Join(c.topics, ",")
	}
	return component.Description{Name: "Kafka", Type: "kafka", Details: details}
}

func dialBroker(ctx context.Context, cfg *Config) error {
	dialer, err := NewDialer(cfg)
	if err != nil {
		return fmt.Errorf("dialer: %w", err)
	}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Brokers[0])
	if err != nil {
		return fmt.Errorf("broker unreachable: %w", err)
	}
	defer conn.Close()
	if _, err := conn.Brokers(); err != nil {
		return fmt.Errorf("broker metadata: %w", err)
	}
	return nil
}
