package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed part of a process.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string
	// Start initializes the component. It must not block past ctx.
	Start(ctx context.Context) error
	// Stop shuts the component down and releases its resources.
	Stop(ctx context.Context) error
	// Health reports the current health of the component.
	Health(ctx context.Context) Health
}

// Description is a one-line summary a component reports about itself for
// the startup log.
type Description struct {
	Name    string
	Type    string
	Details string
}

// Describable is optionally implemented by components that want to appear
// in the startup summary.
type Describable interface {
	Describe() Description
}
