// Command consumer reads users from the topic as a member of a consumer
// group, logs each one and commits its offset after it was processed.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/kbukum/kafkasample/bootstrap"
	"github.com/kbukum/kafkasample/config"
	"github.com/kbukum/kafkasample/kafka"
	"github.com/kbukum/kafkasample/kafka/consumer"
	"github.com/kbukum/kafkasample/logger"
	"github.com/kbukum/kafkasample/observability"
	"github.com/kbukum/kafkasample/server"
	"github.com/kbukum/kafkasample/user"
	"github.com/kbukum/kafkasample/version"
)

func main() {
	var configPath, envFile string
	pflag.StringVar(&configPath, "config", "", "path to config file (default: cmd/consumer/config.yml)")
	pflag.StringVar(&envFile, "env-file", "", "path to .env file")
	pflag.Parse()

	var cfg Config
	if err := config.LoadConfig("consumer", &cfg, config.WithConfigFile(configPath), config.WithEnvFile(envFile)); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
	if err := run(app); err != nil {
		os.Exit(1)
	}
}

func run(app *bootstrap.App[*Config]) error {
	cfg := app.Cfg
	log := app.Logger
	log.Info("build info", version.Get().Fields())
	for _, w := range cfg.PropertyWarnings() {
		log.Warn("ignored kafka property", logger.Fields("field", w.Field, "reason", w.Message))
	}

	telemetry := observability.NewComponent(cfg.Telemetry, observability.Resource{
		ServiceName:    cfg.Name,
		ServiceVersion: app.Version,
		Environment:    cfg.Environment,
	})
	if err := app.RegisterComponent(telemetry); err != nil {
		return err
	}

	kc := kafka.NewComponent(cfg.Kafka, kafka.RoleConsumer, log)
	kc.AddTopic(cfg.Consumer.Topic)
	source, err := consumer.NewConsumer(&cfg.Kafka, cfg.Consumer, log)
	if err != nil {
		log.Error("kafka consumer", logger.ErrorFields("connect", err))
		return err
	}
	kc.AddCloser("consumer", source)
	if err := app.RegisterComponent(kc); err != nil {
		return err
	}
	app.Summary.TrackConsumer("users", cfg.Consumer.GroupID, cfg.Consumer.Topic, "active")

	if cfg.Server.Enabled {
		srv := server.New(cfg.Server, log)
		srv.RegisterOpsEndpoints(cfg.Name, app.Components.HealthAll)
		if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
			return err
		}
	}

	var loop *consumer.Loop[user.User]
	app.OnConfigure(func(_ context.Context, a *bootstrap.App[*Config]) error {
		metrics, err := observability.NewMetrics(observability.Meter())
		if err != nil {
			return err
		}
		handler := consumer.LogHandler[user.User](log, user.Describe)
		loop = consumer.NewLoop[user.User](source, user.NewCodec(), handler, cfg.Consumer, log,
			consumer.WithMetrics[user.User](metrics),
		)
		return nil
	})

	return app.RunTask(context.Background(), func(ctx context.Context) error {
		res := loop.Run(ctx)
		log.Info("committed offsets", map[string]interface{}{
			"topic":   cfg.Consumer.Topic,
			"offsets": loop.State().Snapshot(),
		})
		return res.Error()
	})
}
