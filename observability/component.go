package observability

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/kafkasample/component"
)

// Component owns the tracer and meter providers. When telemetry is disabled
// Start and Stop do nothing and the global no-op providers stay in place.
type Component struct {
	cfg Config
	res Resource

	mu sync.Mutex
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

var _ component.Component = (*Component)(nil)

// NewComponent creates a telemetry component.
func NewComponent(cfg Config, res Resource) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, res: res}
}

func (c *Component) Name() string { return "telemetry" }

func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	tp, err := InitTracer(ctx, c.cfg, c.res)
	if err != nil {
		return err
	}
	mp, err := InitMeter(ctx, c.cfg, c.res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return err
	}
	c.tp, c.mp = tp, mp
	return nil
}

// Stop flushes and shuts down both providers.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.tp != nil {
		if err := c.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		c.tp = nil
	}
	if c.mp != nil {
		if err := c.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
		c.mp = nil
	}
	return errors.Join(errs...)
}

func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if !c.cfg.Enabled {
		h.Message = "disabled"
	}
	return h
}

func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp=%s sample_rate=%v", c.cfg.Endpoint, c.cfg.SampleRate)
	}
	return component.Description{Name: "Telemetry", Type: "otel", Details: details}
}
