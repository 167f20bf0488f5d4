package kafka

import (
	"context"
	"errors"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
)

var connectionPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"no route to host",
	"network is unreachable",
	"broker not available",
	"leader not available",
	"connection closed",
	"dial tcp",
	"network exception",
}

var retryablePatterns = []string{
	"temporary",
	"request timed out",
	"not enough replicas",
	"offset out of range",
}

var nonRetryablePatterns = []string{
	"message too large",
	"invalid topic",
	"invalid partition",
	"unknown topic",
	"authorization failed",
}

func containsAny(err error, patterns []string) bool {
	msg := strings.ToLower(err.Error())
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsConnectionError reports whether err is a connection-level failure.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, kafkago.BrokerNotAvailable) ||
		errors.Is(err, kafkago.LeaderNotAvailable) ||
		errors.Is(err, kafkago.NetworkException) {
		return true
	}
	return containsAny(err, connectionPatterns)
}

// IsRetryableError reports whether err is transient. kafka-go protocol errors
// are classified by their Temporary flag; anything else by message.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var kerr kafkago.Error
	if errors.As(err, &kerr) {
		return kerr.Temporary()
	}
	if errors.Is(err, context.DeadlineExceeded) || IsConnectionError(err) {
		return true
	}
	return containsAny(err, retryablePatterns)
}

// IsNonRetryableError reports whether err can never succeed on retry.
func IsNonRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, kafkago.MessageSizeTooLarge) ||
		errors.Is(err, kafkago.InvalidTopic) ||
		errors.Is(err, kafkago.UnknownTopicOrPartition) ||
		errors.Is(err, kafkago.TopicAuthorizationFailed) {
		return true
	}
	return containsAny(err, nonRetryablePatterns)
}

// IsTopicAlreadyExists reports whether a create-topic failure only means the
// topic is already there.
func IsTopicAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, kafkago.TopicAlreadyExists) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}
