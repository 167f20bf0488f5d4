package kafka

import (
	"github.com/kbukum/kafkasample/errors"
)

// FromKafka converts a broker client error to an AppError.
func FromKafka(err error, topic string) *errors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}

	switch {
	case IsTopicAlreadyExists(err):
		return errors.AlreadyExists("topic").WithDetail("topic", topic).WithCause(err)
	case IsConnectionError(err):
		return errors.ServiceUnavailable("kafka").WithDetail("topic", topic).WithCause(err)
	case IsNonRetryableError(err):
		return errors.InvalidInput("topic", "the broker rejected the request").WithDetail("topic", topic).WithCause(err)
	case IsRetryableError(err):
		return errors.ExternalServiceError("kafka", err).WithDetail("topic", topic)
	default:
		return errors.Internal(err)
	}
}
