package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/kafkasample/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	output          io.Writer
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the application logger. Without it the global logger is
// initialized from the config's logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithOutput sets where the startup summary is printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *appOptions) {
		o.output = w
	}
}
