package bootstrap

import (
	"github.com/kbukum/kafkasample/config"
)

// Config is the constraint for command configuration types. Any struct that
// embeds config.ServiceConfig satisfies it through the promoted methods.
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Kafka kafka.Config   `yaml:"kafka" mapstructure:"kafka"`
//	}
//
//	app, err := bootstrap.NewApp(&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
