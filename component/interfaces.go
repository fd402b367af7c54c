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

// Component is a lifecycle-managed resource such as a REST client or a
// telemetry provider.
type Component interface {
	// Name returns the unique registration name.
	Name() string

	// Start acquires the component's resources.
	Start(ctx context.Context) error

	// Stop releases the component's resources. It must be safe to call more
	// than once.
	Stop(ctx context.Context) error

	// Health reports the current state without performing network calls.
	Health(ctx context.Context) Health
}

// Description is a one-line summary a component reports about itself.
type Description struct {
	// Name is the display name; the component's Name() is used when empty.
	Name string
	// Type categorizes the component, e.g. "rest-client" or "telemetry".
	Type string
	// Details is a short configuration summary, e.g. "https://api.example.com timeout=30s".
	Details string
}

// Describable is optionally implemented by components that can summarize
// their configuration.
type Describable interface {
	Describe() Description
}
