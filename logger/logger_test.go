package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newJSON(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: FormatJSON}, "producer", buf)
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewWithWriter_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := newJSON(&buf, "info").WithComponent("kafka.producer")

	l.Info("message delivered", RecordFields("users", 2, 41), Fields(FieldKey, "123"))

	m := decodeLine(t, &buf)
	if m["message"] != "message delivered" {
		t.Errorf("message = %v", m["message"])
	}
	if m[FieldComponent] != "kafka.producer" {
		t.Errorf("component = %v", m[FieldComponent])
	}
	if m[FieldService] != "producer" {
		t.Errorf("service = %v", m[FieldService])
	}
	if m[FieldTopic] != "users" || m[FieldPartition] != float64(2) || m[FieldOffset] != float64(41) {
		t.Errorf("record fields = %v/%v/%v", m[FieldTopic], m[FieldPartition], m[FieldOffset])
	}
	if m[FieldKey] != "123" {
		t.Errorf("key = %v", m[FieldKey])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newJSON(&buf, "warn")

	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}
	l.Warn("shown")
	if decodeLine(t, &buf)["level"] != "warn" {
		t.Error("expected warn level entry")
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newJSON(&buf, "loud")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at fallback info level")
	}
	l.Info("shown")
	if buf.Len() == 0 {
		t.Fatal("expected info entry")
	}
}

func TestErrorValuesAreLoggedAsStrings(t *testing.T) {
	var buf bytes.Buffer
	newJSON(&buf, "info").Error("send failed", Fields(FieldError, errors.New("broker down")))
	if got := decodeLine(t, &buf)[FieldError]; got != "broker down" {
		t.Errorf("error field = %v", got)
	}
}

func TestPrintfLogsAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	newJSON(&buf, "info").Printf("Consumer Error: %s", "boom")
	m := decodeLine(t, &buf)
	if m["level"] != "error" || m["message"] != "Consumer Error: boom" {
		t.Errorf("unexpected entry %v", m)
	}
}

func TestWithContextWithoutSpan(t *testing.T) {
	l := NewNop()
	if got := l.WithContext(t.Context()); got != l {
		t.Error("expected same logger when ctx carries no span")
	}
}

func TestInitAndGlobal(t *testing.T) {
	Init(Config{Service: "consumer", Level: "debug", Format: FormatJSON, Output: "discard"})
	if GetGlobalLogger().service != "consumer" {
		t.Errorf("global service = %q", GetGlobalLogger().service)
	}
	// package-level helpers must not panic
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")

	custom := NewNop()
	SetGlobalLogger(custom)
	if GetGlobalLogger() != custom {
		t.Error("SetGlobalLogger did not replace global logger")
	}
}

func TestRegistry(t *testing.T) {
	l := NewNop()
	Register("kafka.admin", l)
	if Get("kafka.admin") != l {
		t.Error("expected registered logger")
	}
	if Get("unregistered") == nil {
		t.Error("expected fallback logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != FormatConsole {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"valid pretty", Config{Level: "warn", Format: "pretty"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFieldHelpers(t *testing.T) {
	f := Fields("a", 1, "b")
	if len(f) != 1 || f["a"] != 1 {
		t.Errorf("Fields odd args = %v", f)
	}

	ef := ErrorFields("commit", errors.New("x"))
	if ef[FieldOperation] != "commit" || ef[FieldError] != "x" {
		t.Errorf("ErrorFields = %v", ef)
	}

	m := MergeWithDuration(MergeWithError(nil, errors.New("y")), 1500*time.Millisecond)
	if m[FieldError] != "y" || m[FieldDuration] != int64(1500) {
		t.Errorf("merged = %v", m)
	}
}
