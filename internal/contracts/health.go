package contracts

import (
	"github.com/mozilla-ai/maskd/internal/domain"
)

// HealthMonitor reports the current health of the service.
type HealthMonitor interface {
	// Health returns a snapshot of the service health.
	Health() domain.ServiceHealth
}
