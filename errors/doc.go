// Package errors provides the structured error type shared by the producer
// and consumer. An AppError carries a machine-readable code, a retryable flag,
// free-form details and the underlying cause, so callers branch on codes
// (IsCode) rather than on message text.
package errors
