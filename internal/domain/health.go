package domain

// HealthStatus represents the overall availability of the service.
type HealthStatus string

const (
	// HealthStatusOK means the diagnostic sink has room for new records.
	HealthStatusOK HealthStatus = "ok"

	// HealthStatusDegraded means the diagnostic sink queue is nearly full and records may be dropped.
	HealthStatusDegraded HealthStatus = "degraded"
)

// ServiceHealth describes the state of the diagnostic sink, the only shared resource in the service.
type ServiceHealth struct {
	Status         HealthStatus
	PendingRecords int
	QueueCapacity  int
	DroppedRecords uint64
}
