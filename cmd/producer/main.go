// Command producer provisions the users topic and publishes batches of
// synthetic users to it, one awaited delivery at a time.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/kbukum/kafkasample/bootstrap"
	"github.com/kbukum/kafkasample/config"
	"github.com/kbukum/kafkasample/kafka"
	"github.com/kbukum/kafkasample/kafka/admin"
	"github.com/kbukum/kafkasample/kafka/producer"
	"github.com/kbukum/kafkasample/logger"
	"github.com/kbukum/kafkasample/observability"
	"github.com/kbukum/kafkasample/server"
	"github.com/kbukum/kafkasample/user"
	"github.com/kbukum/kafkasample/version"
)

func main() {
	var configPath, envFile string
	pflag.StringVar(&configPath, "config", "", "path to config file (default: cmd/producer/config.yml)")
	pflag.StringVar(&envFile, "env-file", "", "path to .env file")
	pflag.Parse()

	var cfg Config
	if err := config.LoadConfig("producer", &cfg, config.WithConfigFile(configPath), config.WithEnvFile(envFile)); err != nil {
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

	kc := kafka.NewComponent(cfg.Kafka, kafka.RoleProducer, log)
	kc.AddTopic(cfg.Producer.Name)
	adminClient, err := admin.NewClient(&cfg.Kafka, log)
	if err != nil {
		log.Error("kafka admin client", logger.ErrorFields("connect", err))
		return err
	}
	kc.AddCloser("admin", adminClient)
	sender, err := producer.NewSender(&cfg.Kafka, cfg.Producer, log)
	if err != nil {
		log.Error("kafka producer", logger.ErrorFields("connect", err))
		return err
	}
	kc.AddCloser("producer", sender)
	if err := app.RegisterComponent(kc); err != nil {
		return err
	}
	app.Summary.TrackClient("producer", strings.Join(cfg.Kafka.Brokers, ","), "active", "kafka")

	if cfg.Server.Enabled {
		srv := server.New(cfg.Server, log)
		srv.RegisterOpsEndpoints(cfg.Name, app.Components.HealthAll)
		if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
			return err
		}
	}

	// The topic must exist before the first batch. Anything but "created"
	// or "already exists" stops the process.
	provisioner := admin.NewProvisioner(adminClient, log, admin.WithTimeout(cfg.Kafka.RequestTimeout))
	app.OnStart(func(ctx context.Context) error {
		_, err := provisioner.EnsureTopic(ctx, cfg.Producer.TopicSpec)
		return err
	})

	var loop *producer.Loop[user.User]
	app.OnConfigure(func(_ context.Context, a *bootstrap.App[*Config]) error {
		metrics, err := observability.NewMetrics(observability.Meter())
		if err != nil {
			return err
		}
		p := producer.New[user.User](sender, user.NewCodec(), user.Key, log, producer.WithMetrics[user.User](metrics))
		loop = producer.NewLoop[user.User](p, user.NewGenerator(seed(cfg.Seed)), cfg.Producer.TopicSpec, cfg.Producer, pacer(cfg.Producer), log,
			producer.WithDescribe[user.User](user.Fields),
			producer.WithLoopMetrics[user.User](metrics),
		)
		return nil
	})

	return app.RunTask(context.Background(), func(ctx context.Context) error {
		return loop.Run(ctx).Error()
	})
}

func pacer(cfg producer.Config) producer.Pacer {
	if cfg.Prompt {
		return producer.PromptPacer(os.Stdin, os.Stdout, cfg.BatchSize)
	}
	return producer.IntervalPacer(cfg.Interval)
}

func seed(s uint64) uint64 {
	if s != 0 {
		return s
	}
	return uint64(time.Now().UnixNano())
}
