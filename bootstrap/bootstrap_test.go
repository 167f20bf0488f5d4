package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/kafkasample/component"
	"github.com/kbukum/kafkasample/config"
	"github.com/kbukum/kafkasample/logger"
)

type testConfig struct {
	config.ServiceConfig
}

type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopped = true
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) component.Health {
	return m.health
}

type describedComponent struct {
	mockComponent
}

func (d *describedComponent) Describe() component.Description {
	return component.Description{Name: "Kafka", Type: "kafka", Details: "brokers=localhost:9092"}
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func newTestApp(t *testing.T, opts ...Option) *App[*testConfig] {
	t.Helper()
	opts = append([]Option{WithLogger(logger.NewNop()), WithOutput(io.Discard)}, opts...)
	app, err := NewApp(newTestConfig("test-svc", "1.0.0"), opts...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func healthy(name string) *mockComponent {
	return &mockComponent{name: name, health: component.Health{Name: name, Status: component.StatusHealthy}}
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	if app.Name != "test-svc" {
		t.Errorf("expected name 'test-svc', got %q", app.Name)
	}
	if app.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", app.Version)
	}
	if app.Components == nil || app.Logger == nil || app.Summary == nil {
		t.Error("expected registry, logger and summary to be set")
	}
	if app.Cfg.Logging.Service != "test-svc" {
		t.Errorf("expected defaults applied, logging.service = %q", app.Cfg.Logging.Service)
	}
	if app.gracefulTimeout != 15*time.Second {
		t.Errorf("expected default 15s, got %v", app.gracefulTimeout)
	}
}

func TestNewAppVersionFallback(t *testing.T) {
	app, err := NewApp(newTestConfig("svc", ""), WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatal(err)
	}
	if app.Version == "" {
		t.Error("expected build version when config has none")
	}
}

func TestNewAppValidation(t *testing.T) {
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Environment: "development"}}
	if _, err := NewApp(cfg); err == nil {
		t.Error("expected error for missing name")
	}
	cfg = newTestConfig("svc", "1")
	cfg.Environment = "qa"
	if _, err := NewApp(cfg); err == nil {
		t.Error("expected error for unknown environment")
	}
}

func TestOptions(t *testing.T) {
	custom := logger.NewDefault("custom")
	app := newTestApp(t, WithGracefulTimeout(5*time.Second), WithLogger(custom))
	if app.gracefulTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %v", app.gracefulTimeout)
	}
	if app.Logger != custom {
		t.Error("expected custom logger")
	}
}

func TestRegisterComponentDuplicate(t *testing.T) {
	app := newTestApp(t)
	if err := app.RegisterComponent(healthy("kafka")); err != nil {
		t.Fatal(err)
	}
	if err := app.RegisterComponent(healthy("kafka")); err == nil {
		t.Error("expected error for duplicate component registration")
	}
	if app.Components.Get("kafka") == nil {
		t.Error("expected component to be registered")
	}
}

func TestRunHooks(t *testing.T) {
	var order []string
	hooks := []Hook{
		func(ctx context.Context) error { order = append(order, "first"); return nil },
		func(ctx context.Context) error { return fmt.Errorf("boom") },
		func(ctx context.Context) error { order = append(order, "third"); return nil },
	}
	err := runHooks(context.Background(), hooks)
	if err == nil || !strings.Contains(err.Error(), "hook 1") {
		t.Errorf("expected hook 1 error, got %v", err)
	}
	if len(order) != 1 || order[0] != "first" {
		t.Errorf("expected only first hook to run, got %v", order)
	}
}

func TestReadyCheck(t *testing.T) {
	tests := []struct {
		name    string
		health  []component.Health
		wantErr bool
	}{
		{"empty", nil, false},
		{"all healthy", []component.Health{{Name: "a", Status: component.StatusHealthy}}, false},
		{"unhealthy", []component.Health{{Name: "a", Status: component.StatusUnhealthy, Message: "timeout"}}, true},
		{"degraded", []component.Health{{Name: "a", Status: component.StatusDegraded}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			for _, h := range tt.health {
				_ = app.RegisterComponent(&mockComponent{name: h.Name, health: h})
			}
			err := app.ReadyCheck(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadyCheck() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunTaskLifecycleOrder(t *testing.T) {
	app := newTestApp(t)
	comp := healthy("kafka")
	_ = app.RegisterComponent(comp)

	var order []string
	app.OnStart(func(ctx context.Context) error { order = append(order, "start"); return nil })
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		if a.Cfg.Name != "test-svc" {
			t.Errorf("expected typed config in configure, got %q", a.Cfg.Name)
		}
		order = append(order, "configure")
		return nil
	})
	app.OnReady(func(ctx context.Context) error { order = append(order, "ready"); return nil })
	app.OnStop(func(ctx context.Context) error { order = append(order, "stop"); return nil })

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		if !comp.started {
			t.Error("expected component started before task")
		}
		order = append(order, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}

	want := []string{"start", "configure", "ready", "task", "stop"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
	if !comp.stopped {
		t.Error("expected component stopped after task")
	}
}

func TestRunTaskErrors(t *testing.T) {
	t.Run("task error wins over stop error", func(t *testing.T) {
		app := newTestApp(t)
		c := healthy("kafka")
		c.stopErr = fmt.Errorf("close failed")
		_ = app.RegisterComponent(c)
		err := app.RunTask(context.Background(), func(ctx context.Context) error {
			return fmt.Errorf("task error")
		})
		if err == nil || err.Error() != "task error" {
			t.Errorf("expected task error, got %v", err)
		}
	})

	t.Run("stop error surfaces after success", func(t *testing.T) {
		app := newTestApp(t)
		c := healthy("kafka")
		c.stopErr = fmt.Errorf("close failed")
		_ = app.RegisterComponent(c)
		err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
		if err == nil || !strings.Contains(err.Error(), "close failed") {
			t.Errorf("expected stop error, got %v", err)
		}
	})

	t.Run("start failure skips task", func(t *testing.T) {
		app := newTestApp(t)
		_ = app.RegisterComponent(&mockComponent{name: "kafka", startErr: fmt.Errorf("no brokers")})
		ran := false
		err := app.RunTask(context.Background(), func(ctx context.Context) error { ran = true; return nil })
		if err == nil || ran {
			t.Errorf("expected startup error and no task, got err=%v ran=%v", err, ran)
		}
	})

	t.Run("hook failure stops components", func(t *testing.T) {
		app := newTestApp(t)
		c := healthy("kafka")
		_ = app.RegisterComponent(c)
		app.OnStart(func(ctx context.Context) error { return fmt.Errorf("provisioning failed") })
		err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
		if err == nil {
			t.Fatal("expected error from failing start hook")
		}
		if !c.stopped {
			t.Error("expected started components to be stopped")
		}
	})

	t.Run("configure failure", func(t *testing.T) {
		app := newTestApp(t)
		app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error { return fmt.Errorf("bad wiring") })
		if err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil }); err == nil {
			t.Error("expected configure error")
		}
	})
}

func TestRunTaskCancellation(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	err := app.RunTask(ctx, func(taskCtx context.Context) error {
		cancel()
		<-taskCtx.Done()
		return taskCtx.Err()
	})
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunUntilCancelled(t *testing.T) {
	app := newTestApp(t)
	c := healthy("kafka")
	_ = app.RegisterComponent(c)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !c.started || !c.stopped {
		t.Errorf("expected component started and stopped, got %v/%v", c.started, c.stopped)
	}
}

func TestSummaryDisplay(t *testing.T) {
	var buf bytes.Buffer
	app := newTestApp(t, WithOutput(&buf))
	_ = app.RegisterComponent(&describedComponent{*healthy("kafka")})
	_ = app.RegisterComponent(&mockComponent{
		name:   "telemetry",
		health: component.Health{Name: "telemetry", Status: component.StatusUnhealthy, Message: "exporter down"},
	})
	app.Summary.TrackConsumer("users", "user-consumer", "users", "active")
	app.Summary.TrackClient("producer", "localhost:9092", "active", "kafka")

	_ = app.RunTask(context.Background(), func(ctx context.Context) error { return nil })

	out := buf.String()
	for _, want := range []string{
		"test-svc v1.0.0 started",
		"Kafka [kafka]: brokers=localhost:9092",
		"producer → localhost:9092 [kafka] (active)",
		"users (group: user-consumer, topic: users) [active]",
		"telemetry: unhealthy (exporter down)",
		"Some components have issues (1/2 healthy)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}
}
