package domain

// HealthState is the client's belief about API reachability.
type HealthState string

const (
	HealthChecking  HealthState = "checking"
	HealthHealthy   HealthState = "healthy"
	HealthUnhealthy HealthState = "unhealthy"
)

// Label is the short status line shown next to the health indicator.
func (h HealthState) Label() string {
	switch h {
	case HealthHealthy:
		return "API Healthy"
	case HealthUnhealthy:
		return "API Unhealthy"
	default:
		return "Checking..."
	}
}

// ConnectionLabel describes the connection to the API server.
func (h HealthState) ConnectionLabel() string {
	switch h {
	case HealthHealthy:
		return "Connected"
	case HealthUnhealthy:
		return "Disconnected"
	default:
		return "Checking..."
	}
}
