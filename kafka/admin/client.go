package admin

import (
	"context"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/kafkasample/kafka"
	"github.com/kbukum/kafkasample/logger"
)

// Client creates topics through the kafka-go admin API.
type Client struct {
	client      *kafkago.Client
	transport   *kafkago.Transport
	errorLogger kafkago.Logger
}

var _ TopicCreator = (*Client)(nil)

// NewClient builds an admin client for cfg. Request failures are also
// reported to log with an "Admin Error:" prefix.
func NewClient(cfg *kafka.Config, log *logger.Logger) (*Client, error) {
	client, err := kafka.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka admin client: %w", err)
	}
	transport, _ := client.Transport.(*kafkago.Transport)
	return &Client{
		client:      client,
		transport:   transport,
		errorLogger: log.WithComponent("kafka.admin"),
	}, nil
}

// CreateTopic sends a create-topics request for one topic. The per-topic
// error of the response is returned as is, so an existing topic surfaces as
// kafkago.TopicAlreadyExists.
func (c *Client) CreateTopic(ctx context.Context, spec kafka.TopicSpec) error {
	resp, err := c.client.CreateTopics(ctx, &kafkago.CreateTopicsRequest{
		Topics: []kafkago.TopicConfig{{
			Topic:             spec.Name,
			NumPartitions:     spec.Partitions,
			ReplicationFactor: spec.ReplicationFactor,
		}},
	})
	if err != nil {
		c.errorLogger.Printf("Admin Error: %v", err)
		return err
	}
	if terr := resp.Errors[spec.Name]; terr != nil {
		if !kafka.IsTopicAlreadyExists(terr) {
			c.errorLogger.Printf("Admin Error: %v", terr)
		}
		return terr
	}
	return nil
}

// Close releases idle broker connections.
func (c *Client) Close() error {
	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}
	return nil
}
