package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// NewTransport builds the kafka-go transport used by request/response
// clients (admin and producer).
func NewTransport(cfg *Config) (*kafkago.Transport, error) {
	transport := &kafkago.Transport{
		ClientID:    cfg.ClientID,
		DialTimeout: cfg.DialTimeout,
		IdleTimeout: cfg.IdleTimeout,
		MetadataTTL: cfg.MetadataTTL,
	}
	tlsCfg, mechanism, err := security(cfg)
	if err != nil {
		return nil, err
	}
	transport.TLS = tlsCfg
	transport.SASL = mechanism
	return transport, nil
}

// NewClient builds a kafka-go client bound to the configured brokers.
func NewClient(cfg *Config) (*kafkago.Client, error) {
	transport, err := NewTransport(cfg)
	if err != nil {
		return nil, err
	}
	return &kafkago.Client{
		Addr:      kafkago.TCP(cfg.Brokers...),
		Timeout:   cfg.RequestTimeout,
		Transport: transport,
	}, nil
}

// NewDialer builds the kafka-go dialer used by the group reader.
func NewDialer(cfg *Config) (*kafkago.Dialer, error) {
	dialer := &kafkago.Dialer{
		ClientID:  cfg.ClientID,
		Timeout:   cfg.DialTimeout,
		DualStack: true,
	}
	tlsCfg, mechanism, err := security(cfg)
	if err != nil {
		return nil, err
	}
	dialer.TLS = tlsCfg
	dialer.SASLMechanism = mechanism
	return dialer, nil
}

func security(cfg *Config) (*tls.Config, sasl.Mechanism, error) {
	var (
		tlsCfg    *tls.Config
		mechanism sasl.Mechanism
		err       error
	)
	if cfg.EnableTLS {
		if tlsCfg, err = buildTLSConfig(cfg); err != nil {
			return nil, nil, fmt.Errorf("TLS config: %w", err)
		}
	}
	if cfg.EnableSASL {
		if mechanism, err = buildSASLMechanism(cfg); err != nil {
			return nil, nil, fmt.Errorf("SASL config: %w", err)
		}
	}
	return tlsCfg, mechanism, nil
}

func buildTLSConfig(cfg *Config) (*tls.Config, error) {
	tc := &tls.Config{
		InsecureSkipVerify: cfg.TLSSkipVerify, //nolint:gosec // opt-in for local clusters
		MinVersion:         tls.VersionTLS12,
	}
	if cfg.TLSCAFile != "" {
		caCert, err := os.ReadFile(cfg.TLSCAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("parse CA certificate %s", cfg.TLSCAFile)
		}
		tc.RootCAs = pool
	}
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tc.Certificates = []tls.Certificate{cert}
	}
	return tc, nil
}

func buildSASLMechanism(cfg *Config) (sasl.Mechanism, error) {
	switch strings.ToUpper(cfg.SASLMechanism) {
	case SASLPlain:
		return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}, nil
	case SASLScramSHA256:
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case SASLScramSHA512:
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.SASLMechanism)
	}
}

// ResolveCompression maps a compression name to a kafka-go codec.
func ResolveCompression(name string) (kafkago.Compression, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return 0, nil
	case "gzip":
		return kafkago.Gzip, nil
	case "snappy":
		return kafkago.Snappy, nil
	case "lz4":
		return kafkago.Lz4, nil
	case "zstd":
		return kafkago.Zstd, nil
	default:
		return 0, fmt.Errorf("unsupported compression: %s", name)
	}
}

// ResolveRequiredAcks maps the acks setting (-1/all, 0, 1) to kafka-go.
func ResolveRequiredAcks(acks int) (kafkago.RequiredAcks, error) {
	switch acks {
	case -1:
		return kafkago.RequireAll, nil
	case 0:
		return kafkago.RequireNone, nil
	case 1:
		return kafkago.RequireOne, nil
	default:
		return 0, fmt.Errorf("unsupported required acks: %d", acks)
	}
}
