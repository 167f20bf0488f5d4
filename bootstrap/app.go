package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/kafkasample/component"
	"github.com/kbukum/kafkasample/logger"
	"github.com/kbukum/kafkasample/version"
)

// App runs a command with uniform lifecycle management. C is the command's
// config type.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	gracefulTimeout time.Duration
	output          io.Writer
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp applies the config defaults, validates the config and initializes
// the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	ver := base.Version
	if ver == "" {
		ver = version.GetShortVersion()
	}

	app := &App[C]{
		Name:            base.Name,
		Version:         ver,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		gracefulTimeout: 15 * time.Second,
		output:          os.Stdout,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.output != nil {
		app.output = o.output
	}
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	app.Summary = NewSummary(app.Name, app.Version)
	return app, nil
}

// RegisterComponent adds a component to the registry. Components start in
// registration order.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback for the configure phase, which runs after
// the components are started.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run starts the application and blocks until a shutdown signal arrives or
// ctx is done, then shuts down.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}
	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	return a.stop()
}

// RunTask starts the application, runs task and shuts down when it returns.
// SIGINT and SIGTERM cancel the task's context. The task error wins over a
// shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", map[string]interface{}{
				"signal": sig.String(),
			})
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)
	if taskErr != nil {
		a.Logger.Error("Task failed", logger.ErrorFields("run", taskErr))
	}

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", map[string]interface{}{
		"name":    a.Name,
		"version": a.Version,
	})

	if err := a.initialize(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		a.stopQuietly()
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := a.configure(ctx); err != nil {
		a.stopQuietly()
		return fmt.Errorf("configuration failed: %w", err)
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		a.stopQuietly()
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.DisplaySummary(ctx)
	return nil
}

func (a *App[C]) initialize(ctx context.Context) error {
	a.Logger.Debug("Phase 1: Starting components")
	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}
	a.Logger.Debug("Phase 1: All components started")
	return nil
}

func (a *App[C]) configure(ctx context.Context) error {
	if len(a.onConfigure) == 0 {
		return nil
	}
	a.Logger.Debug("Phase 2: Running configuration callbacks", map[string]interface{}{
		"count": len(a.onConfigure),
	})
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// DisplaySummary prints the startup summary with live component health.
func (a *App[C]) DisplaySummary(ctx context.Context) {
	a.Summary.Display(ctx, a.output, a.Components)
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", map[string]interface{}{
			"signal": sig.String(),
		})
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown stops the application. Use it when managing the lifecycle by hand.
func (a *App[C]) Shutdown(_ context.Context) error {
	return a.stop()
}

func (a *App[C]) stopQuietly() {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()
	_ = a.Components.StopAll(ctx)
}

// stop runs the OnStop hooks and stops all components within the graceful
// timeout.
func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", map[string]interface{}{
		"timeout": a.gracefulTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", map[string]interface{}{
			"error": err.Error(),
		})
		shutdownErr = err
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", map[string]interface{}{
			"error": err.Error(),
		})
		shutdownErr = err
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
