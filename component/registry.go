package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/kafkasample/logger"
)

// DefaultStopTimeout bounds each component's Stop call.
const DefaultStopTimeout = 10 * time.Second

type entry struct {
	component Component
	started   bool
}

// Registry manages component lifecycle with deterministic ordering.
// Components start in registration order and stop in reverse order.
type Registry struct {
	mu          sync.RWMutex
	entries     []*entry
	lookup      map[string]*entry
	stopTimeout time.Duration
	log         *logger.Logger
}

// NewRegistry creates a new component registry.
func NewRegistry() *Registry {
	return &Registry{
		lookup:      make(map[string]*entry),
		stopTimeout: DefaultStopTimeout,
		log:         logger.WithComponent("component"),
	}
}

// Register adds a component. Register dependencies first.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, exists := r.lookup[name]; exists {
		return fmt.Errorf("component %s already registered", name)
	}
	e := &entry{component: c}
	r.entries = append(r.entries, e)
	r.lookup[name] = e
	r.log.Debug("component registered", logger.Fields(logger.FieldComponent, name))
	return nil
}

// StartAll starts all components in registration order. If one fails, the
// components started before it are stopped again and the error is returned.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.started {
			continue
		}
		name := e.component.Name()
		if err := e.component.Start(ctx); err != nil {
			r.log.Error("component start failed", logger.Fields(logger.FieldComponent, name, logger.FieldError, err))
			if stopErr := r.stopStarted(context.WithoutCancel(ctx)); stopErr != nil {
				err = errors.Join(err, stopErr)
			}
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		e.started = true
		r.log.Debug("component started", logger.Fields(logger.FieldComponent, name))
	}
	r.log.Info("components started", logger.Fields("count", len(r.entries)))
	return nil
}

// StopAll stops all started components in reverse registration order and
// returns every stop error joined together.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopStarted(ctx)
}

func (r *Registry) stopStarted(ctx context.Context) error {
	var errs []error
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if !e.started {
			continue
		}
		name := e.component.Name()
		stopCtx, cancel := context.WithTimeout(ctx, r.stopTimeout)
		err := e.component.Stop(stopCtx)
		cancel()
		e.started = false
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", name, err))
			r.log.Error("component stop failed", logger.Fields(logger.FieldComponent, name, logger.FieldError, err))
			continue
		}
		r.log.Debug("component stopped", logger.Fields(logger.FieldComponent, name))
	}
	return errors.Join(errs...)
}

// HealthAll returns the health of every registered component.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]Health, 0, len(r.entries))
	for _, e := range r.entries {
		results = append(results, e.component.Health(ctx))
	}
	return results
}

// Healthy reports whether every component is healthy.
func (r *Registry) Healthy(ctx context.Context) bool {
	for _, h := range r.HealthAll(ctx) {
		if h.Status != StatusHealthy {
			return false
		}
	}
	return true
}

// Get returns a registered component by name, or nil if not found.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.lookup[name]; ok {
		return e.component
	}
	return nil
}

// All returns all registered components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Component, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.component)
	}
	return out
}
