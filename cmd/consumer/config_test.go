package main

import (
	"strings"
	"testing"
	"time"

	"github.com/kbukum/kafkasample/config"
	"github.com/kbukum/kafkasample/kafka/consumer"
)

func TestConfigFile(t *testing.T) {
	var cfg Config
	if err := config.LoadConfig("consumer", &cfg, config.WithConfigFile("config.yml"), config.WithEnvFile("missing.env")); err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	c := cfg.Consumer
	if c.Topic != "users" || c.GroupID != "user-consumer" {
		t.Errorf("topic/group = %s/%s", c.Topic, c.GroupID)
	}
	if c.PollTimeout != time.Second || c.CommitTimeout != 5*time.Second {
		t.Errorf("timeouts = %v/%v", c.PollTimeout, c.CommitTimeout)
	}
	if c.MalformedPolicy != consumer.MalformedSkip {
		t.Errorf("MalformedPolicy = %q", c.MalformedPolicy)
	}
	if c.SessionTimeout != 30*time.Second || c.MaxWait != 500*time.Millisecond {
		t.Errorf("session/max wait = %v/%v", c.SessionTimeout, c.MaxWait)
	}
	if cfg.Server.Port != 8082 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cfg.Consumer.GroupID != serviceName {
		t.Errorf("GroupID = %q, want the service name", cfg.Consumer.GroupID)
	}
	if cfg.Consumer.Topic != "users" {
		t.Errorf("Topic = %q", cfg.Consumer.Topic)
	}
}

func TestConfigProperties(t *testing.T) {
	tests := []struct {
		name     string
		props    map[string]string
		wantErr  string
		warnings int
	}{
		{"tuning", map[string]string{"session.timeout.ms": "45000", "fetch.min.bytes": "1024"}, "", 0},
		{"auto commit", map[string]string{"enable.auto.commit": "true"}, "enable.auto.commit", 0},
		{"offset store", map[string]string{"enable.auto.offset.store": "true"}, "enable.auto.offset.store", 0},
		{"offset reset", map[string]string{"auto.offset.reset": "latest"}, "auto.offset.reset", 0},
		{"group id", map[string]string{"group.id": "other"}, "group.id", 0},
		{"producer only key", map[string]string{"acks": "1"}, "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{}
			cfg.Kafka.Properties = tt.props
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if tt.wantErr == "" && err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			if tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)) {
				t.Fatalf("Validate() = %v, want error about %s", err, tt.wantErr)
			}
			if got := len(cfg.PropertyWarnings()); got != tt.warnings {
				t.Errorf("warnings = %d, want %d", got, tt.warnings)
			}
		})
	}
}
