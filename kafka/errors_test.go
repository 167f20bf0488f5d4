package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"

	kafkago "github.com/segmentio/kafka-go"

	apperrors "github.com/kbukum/kafkasample/errors"
)

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"broker not available", kafkago.BrokerNotAvailable, true},
		{"wrapped leader not available", fmt.Errorf("produce: %w", kafkago.LeaderNotAvailable), true},
		{"dial", errors.New("dial tcp 127.0.0.1:9092: connect: connection refused"), true},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConnectionError(tt.err); got != tt.want {
				t.Errorf("IsConnectionError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"leader not available", kafkago.LeaderNotAvailable, true},
		{"message too large", kafkago.MessageSizeTooLarge, false},
		{"deadline", context.DeadlineExceeded, true},
		{"pattern", errors.New("request timed out"), true},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err); got != tt.want {
				t.Errorf("IsRetryableError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsNonRetryableError(t *testing.T) {
	if !IsNonRetryableError(kafkago.TopicAuthorizationFailed) {
		t.Error("authorization failure should be non-retryable")
	}
	if !IsNonRetryableError(fmt.Errorf("x: %w", kafkago.InvalidTopic)) {
		t.Error("wrapped invalid topic should be non-retryable")
	}
	if IsNonRetryableError(kafkago.LeaderNotAvailable) {
		t.Error("leader not available should be retryable")
	}
	if IsNonRetryableError(nil) {
		t.Error("nil should be false")
	}
}

func TestIsTopicAlreadyExists(t *testing.T) {
	if !IsTopicAlreadyExists(kafkago.TopicAlreadyExists) {
		t.Error("expected true for TopicAlreadyExists")
	}
	if !IsTopicAlreadyExists(errors.New("Topic 'users' already exists.")) {
		t.Error("expected true for message match")
	}
	if IsTopicAlreadyExists(kafkago.BrokerNotAvailable) || IsTopicAlreadyExists(nil) {
		t.Error("expected false")
	}
}

func TestFromKafka(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code apperrors.ErrorCode
	}{
		{"already exists", kafkago.TopicAlreadyExists, apperrors.ErrCodeAlreadyExists},
		{"connection", kafkago.BrokerNotAvailable, apperrors.ErrCodeServiceUnavailable},
		{"non retryable", kafkago.InvalidTopic, apperrors.ErrCodeInvalidInput},
		{"retryable", errors.New("request timed out"), apperrors.ErrCodeExternalService},
		{"unknown", errors.New("boom"), apperrors.ErrCodeInternal},
		{"app error passthrough", apperrors.CommitFailed("users", 0, 1, nil), apperrors.ErrCodeCommitFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromKafka(tt.err, "users")
			if got == nil {
				t.Fatal("FromKafka() = nil")
			}
			if got.Code != tt.code {
				t.Errorf("Code = %s, want %s", got.Code, tt.code)
			}
		})
	}
	if FromKafka(nil, "users") != nil {
		t.Error("FromKafka(nil) should be nil")
	}
}
