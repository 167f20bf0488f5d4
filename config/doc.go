// Package config loads command configuration with viper.
//
// A command's config file is found under cmd/<service>/config.yml unless an
// explicit path is given, a matching .env file is loaded with godotenv, and
// environment variables override both:
//
//	var cfg Config
//	err := config.LoadConfig("producer", &cfg, config.WithConfigFile(path))
//
// KAFKA_BROKERS=a:9092,b:9092 overrides kafka.brokers.
package config
