package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connection/Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates the broker is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeConnectionFailed indicates a failed connection to the broker.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the resource already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeForbiddenSetting indicates a configuration key the clients
	// force themselves was overridden.
	ErrCodeForbiddenSetting ErrorCode = "FORBIDDEN_SETTING"
)

// Messaging errors
const (
	// ErrCodeMalformedPayload indicates a record value could not be decoded.
	ErrCodeMalformedPayload ErrorCode = "MALFORMED_PAYLOAD"
	// ErrCodeSerialization indicates a value could not be encoded.
	ErrCodeSerialization ErrorCode = "SERIALIZATION_FAILED"
	// ErrCodeDeliveryFailed indicates the broker rejected or never acknowledged a record.
	ErrCodeDeliveryFailed ErrorCode = "DELIVERY_FAILED"
	// ErrCodeCommitFailed indicates an offset commit was not accepted.
	ErrCodeCommitFailed ErrorCode = "COMMIT_FAILED"
	// ErrCodeProvisioningFailed indicates a topic could not be created.
	ErrCodeProvisioningFailed ErrorCode = "PROVISIONING_FAILED"
	// ErrCodeProcessingFailed indicates the record handler returned an error.
	ErrCodeProcessingFailed ErrorCode = "PROCESSING_FAILED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeExternalService indicates an error from an external service.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeConnectionFailed:   true,
	ErrCodeTimeout:            true,
	ErrCodeExternalService:    true,
	ErrCodeDeliveryFailed:     true,
	ErrCodeCommitFailed:       true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
