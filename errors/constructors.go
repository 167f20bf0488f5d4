package errors

import "fmt"

// ServiceUnavailable creates an error for a service that is temporarily unavailable.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("%s is temporarily unavailable", service),
		Retryable: true, Details: map[string]any{"service": service},
	}
}

// ConnectionFailed creates an error for a failed connection to a service.
func ConnectionFailed(service string) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("unable to connect to %s", service),
		Retryable: true, Details: map[string]any{"service": service},
	}
}

// Timeout creates an error for an operation that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s timed out", operation),
		Retryable: true, Details: map[string]any{"operation": operation},
	}
}

// NotFound creates an error for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found", resource),
		Details: details,
	}
}

// AlreadyExists creates an error for a resource that already exists.
func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("%s already exists", resource),
		Details: map[string]any{"resource": resource},
	}
}

// InvalidInput creates an error for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates an error for a failed validation.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// ForbiddenSetting creates an error for an override of a setting the client
// controls itself.
func ForbiddenSetting(key, reason string) *AppError {
	return &AppError{
		Code: ErrCodeForbiddenSetting, Message: fmt.Sprintf("setting %q cannot be overridden: %s", key, reason),
		Details: map[string]any{"key": key},
	}
}

// MalformedPayload creates an error for a record value that does not decode
// into a valid record.
func MalformedPayload(cause error) *AppError {
	return &AppError{
		Code: ErrCodeMalformedPayload, Message: "record payload is malformed",
		Cause: cause,
	}
}

// Serialization creates an error for a value that could not be encoded.
func Serialization(cause error) *AppError {
	return &AppError{
		Code: ErrCodeSerialization, Message: "record value could not be encoded",
		Cause: cause,
	}
}

// DeliveryFailed creates an error for a record the broker did not accept.
func DeliveryFailed(topic string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDeliveryFailed, Message: fmt.Sprintf("delivery to %s failed", topic),
		Retryable: true, Details: map[string]any{"topic": topic}, Cause: cause,
	}
}

// CommitFailed creates an error for an offset commit that was not accepted.
func CommitFailed(topic string, partition int, offset int64, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCommitFailed, Message: fmt.Sprintf("commit of %s[%d]@%d failed", topic, partition, offset),
		Retryable: true, Cause: cause,
		Details: map[string]any{"topic": topic, "partition": partition, "offset": offset},
	}
}

// ProvisioningFailed creates an error for a topic that could not be created.
func ProvisioningFailed(topic string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeProvisioningFailed, Message: fmt.Sprintf("topic %s could not be provisioned", topic),
		Details: map[string]any{"topic": topic}, Cause: cause,
	}
}

// ProcessingFailed creates an error for a record the handler rejected.
func ProcessingFailed(topic string, partition int, offset int64, cause error) *AppError {
	return &AppError{
		Code: ErrCodeProcessingFailed, Message: fmt.Sprintf("processing of %s[%d]@%d failed", topic, partition, offset),
		Cause:   cause,
		Details: map[string]any{"topic": topic, "partition": partition, "offset": offset},
	}
}

// Internal creates an error for an unexpected internal failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		Cause: cause,
	}
}

// ExternalServiceError creates an error for a failure reported by an external service.
func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExternalService, Message: fmt.Sprintf("%s reported an error", service),
		Retryable: true, Details: map[string]any{"service": service}, Cause: cause,
	}
}
