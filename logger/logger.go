package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatPretty  = "pretty"
)

// Logger wraps zerolog.Logger with the service name it was built for.
type Logger struct {
	logger  zerolog.Logger
	service string
}

// Init configures the global logger. Safe to call more than once; the last
// call wins.
func Init(cfg Config) {
	cfg.ApplyDefaults()
	globalLogger = New(&cfg, cfg.Service)

	if level, err := zerolog.ParseLevel(cfg.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	log.Logger = globalLogger.logger
}

// New creates a logger writing to the output named in cfg.
func New(cfg *Config, serviceName string) *Logger {
	return NewWithWriter(cfg, serviceName, outputWriter(cfg.Output))
}

// NewWithWriter creates a logger writing to w. Console and pretty formats
// wrap w in a zerolog.ConsoleWriter.
func NewWithWriter(cfg *Config, serviceName string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if isConsole(cfg.Format) {
		zl = zerolog.New(consoleWriter(cfg, serviceName, w))
	} else {
		zl = zerolog.New(w)
	}
	zl = zl.Level(level)

	ctx := zl.With()
	if serviceName != "" {
		ctx = ctx.Str(FieldService, serviceName)
	}
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}

	return &Logger{logger: ctx.Logger(), service: serviceName}
}

// NewDefault creates a console logger at info level.
func NewDefault(serviceName string) *Logger {
	cfg := &Config{Level: "info", Format: FormatConsole, Output: "stdout", Timestamp: true}
	return New(cfg, serviceName)
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// WithContext returns a logger carrying the trace and span ids of the span
// active in ctx, if any.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	zl := l.logger.With().
		Str(FieldTraceID, sc.TraceID().String()).
		Str(FieldSpanID, sc.SpanID().String()).
		Logger()
	return &Logger{logger: zl, service: l.service}
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		logger:  l.logger.With().Str(FieldComponent, name).Logger(),
		service: l.service,
	}
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	zc := l.logger.With()
	for k, v := range fields {
		zc = zc.Interface(k, v)
	}
	return &Logger{logger: zc.Logger(), service: l.service}
}

// WithError returns a logger with an error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		logger:  l.logger.With().Err(err).Logger(),
		service: l.service,
	}
}

// Zerolog returns the underlying zerolog.Logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.logger
}

// Printf logs at error level. It satisfies the kafka-go Logger interface so a
// Logger can be handed to the broker client as its ErrorLogger.
func (l *Logger) Printf(format string, args ...interface{}) {
	l.logger.Error().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Error(), msg, fields)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Fatal(), msg, fields)
}

var globalLogger *Logger

// SetGlobalLogger replaces the global logger.
func SetGlobalLogger(l *Logger) { globalLogger = l }

// GetGlobalLogger returns the global logger, creating a default one if needed.
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		globalLogger = NewDefault("")
	}
	return globalLogger
}

func Debug(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Debug(msg, fields...)
}

func Info(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Info(msg, fields...)
}

func Warn(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Warn(msg, fields...)
}

func Error(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Error(msg, fields...)
}

func Fatal(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Fatal(msg, fields...)
}

// WithComponent returns a component-tagged logger from the global logger.
func WithComponent(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

func emit(event *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, fm := range fields {
		for k, v := range fm {
			if err, ok := v.(error); ok {
				event.AnErr(k, err)
				continue
			}
			event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

func isConsole(format string) bool {
	f := strings.ToLower(format)
	return f == FormatConsole || f == FormatPretty
}

func outputWriter(output string) io.Writer {
	switch strings.ToLower(output) {
	case "stderr":
		return os.Stderr
	case "discard", "none":
		return io.Discard
	default:
		return os.Stdout
	}
}

var levelTags = map[string]string{
	"TRACE": "TRC",
	"DEBUG": "DBG",
	"INFO":  "INF",
	"WARN":  "WRN",
	"ERROR": "ERR",
	"FATAL": "FTL",
}

var levelColors = map[string]string{
	"DEBUG": "36",
	"INFO":  "32",
	"WARN":  "33",
	"ERROR": "31",
	"FATAL": "35",
}

func consoleWriter(cfg *Config, serviceName string, w io.Writer) zerolog.ConsoleWriter {
	prefix := ""
	if len(serviceName) >= 3 {
		prefix = "[" + strings.ToUpper(serviceName[:3]) + "]"
	}
	return zerolog.ConsoleWriter{
		Out:           w,
		TimeFormat:    "15:04:05",
		NoColor:       cfg.NoColor,
		FieldsExclude: []string{FieldService},
		FormatLevel: func(i interface{}) string {
			name := strings.ToUpper(fmt.Sprintf("%s", i))
			tag, ok := levelTags[name]
			if !ok {
				tag = name
			}
			lvl := "[" + tag + "]"
			if color, ok := levelColors[name]; ok && !cfg.NoColor {
				lvl = "\033[" + color + "m" + lvl + "\033[0m"
			}
			return prefix + lvl
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s:", i)
		},
	}
}
