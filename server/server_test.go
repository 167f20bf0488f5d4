package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/kafkasample/component"
	"github.com/kbukum/kafkasample/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func checker(results ...component.Health) func(context.Context) []component.Health {
	return func(context.Context) []component.Health { return results }
}

func get(t *testing.T, s *Server, path string) (int, map[string]interface{}) {
	t.Helper()
	rr := httptest.NewRecorder()
	s.GinEngine().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("%s: response is not JSON: %v", path, err)
	}
	return rr.Code, body
}

func TestOpsEndpoints(t *testing.T) {
	kafkaUp := component.Health{Name: "kafka", Status: component.StatusHealthy}
	kafkaDown := component.Health{Name: "kafka", Status: component.StatusUnhealthy, Message: "broker unreachable"}
	slow := component.Health{Name: "telemetry", Status: component.StatusDegraded}

	tests := []struct {
		name       string
		path       string
		health     []component.Health
		wantCode   int
		wantStatus string
	}{
		{"health ok", "/health", []component.Health{kafkaUp}, http.StatusOK, "healthy"},
		{"health degraded", "/health", []component.Health{kafkaUp, slow}, http.StatusOK, "degraded"},
		{"health down", "/health", []component.Health{slow, kafkaDown}, http.StatusServiceUnavailable, "unhealthy"},
		{"ready", "/readiness", []component.Health{kafkaUp, slow}, http.StatusOK, "ready"},
		{"not ready", "/readiness", []component.Health{kafkaDown}, http.StatusServiceUnavailable, "not_ready"},
		{"alive while broker down", "/liveness", []component.Health{kafkaDown}, http.StatusOK, "alive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Config{}, logger.NewNop())
			s.RegisterOpsEndpoints("user-consumer", checker(tt.health...))
			code, body := get(t, s, tt.path)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if body["status"] != tt.wantStatus {
				t.Errorf("status = %v, want %s", body["status"], tt.wantStatus)
			}
			if body["service"] != "user-consumer" {
				t.Errorf("service = %v", body["service"])
			}
		})
	}
}

func TestInfoAndMetrics(t *testing.T) {
	s := New(Config{}, logger.NewNop())
	s.RegisterOpsEndpoints("user-producer", nil)

	code, body := get(t, s, "/info")
	if code != http.StatusOK || body["version"] == "" || body["uptime"] == nil {
		t.Errorf("/info = %d %v", code, body)
	}
	code, body = get(t, s, "/metrics")
	if code != http.StatusOK || body["goroutines"] == nil {
		t.Errorf("/metrics = %d %v", code, body)
	}
	code, body = get(t, s, "/health")
	if code != http.StatusOK || body["status"] != "healthy" {
		t.Errorf("/health without checker = %d %v", code, body)
	}
}

func TestComponentLifecycle(t *testing.T) {
	s := New(Config{Host: "127.0.0.1", Port: 0}, logger.NewNop())
	s.RegisterOpsEndpoints("svc", nil)
	c := NewComponent(s)
	ctx := context.Background()

	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("Health() before Start = %v", h.Status)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("Health() after Start = %v", h.Status)
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/liveness", s.Addr()))
	if err != nil {
		t.Fatalf("GET /liveness: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /liveness = %d", resp.StatusCode)
	}

	if d := c.Describe(); d.Type != "server" || d.Details == "" {
		t.Errorf("Describe() = %+v", d)
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop() = %v", err)
	}
}

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Port != 8081 || cfg.ReadTimeout != 5 || cfg.WriteTimeout != 10 || cfg.IdleTimeout != 60 {
		t.Errorf("defaults = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	tests := []Config{
		{Port: 70000},
		{Port: 80, ReadTimeout: -1},
		{Port: 80, WriteTimeout: -1},
		{Port: 80, IdleTimeout: -1},
	}
	for _, c := range tests {
		if err := c.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", c)
		}
	}
}
