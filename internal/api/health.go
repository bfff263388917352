package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mozilla-ai/maskd/internal/contracts"
	"github.com/mozilla-ai/maskd/internal/domain"
)

// HealthStatus represents the reported availability of the service.
type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "ok"
	HealthStatusDegraded HealthStatus = "degraded"
)

// ServiceHealth is the API representation of domain.ServiceHealth.
type ServiceHealth struct {
	Status      HealthStatus      `enum:"ok,degraded"  json:"status"`
	Diagnostics DiagnosticsHealth `json:"diagnostics"`
}

// DiagnosticsHealth describes the diagnostic sink queue.
type DiagnosticsHealth struct {
	Pending  int    `doc:"Records waiting to be written"     json:"pending"`
	Capacity int    `doc:"Maximum number of pending records" json:"capacity"`
	Dropped  uint64 `doc:"Records dropped since startup"     json:"dropped"`
}

// ServiceHealthResponse is the response for GET /health.
type ServiceHealthResponse struct {
	Body ServiceHealth
}

// DomainServiceHealth is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainServiceHealth domain.ServiceHealth

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainServiceHealth) ToAPIType() (ServiceHealth, error) {
	status, err := parseHealthStatus(d.Status)
	if err != nil {
		return ServiceHealth{}, err
	}

	return ServiceHealth{
		Status: status,
		Diagnostics: DiagnosticsHealth{
			Pending:  d.PendingRecords,
			Capacity: d.QueueCapacity,
			Dropped:  d.DroppedRecords,
		},
	}, nil
}

// RegisterHealthRoutes sets up the health endpoint. It is served by Huma and bypasses the masking pipeline.
func RegisterHealthRoutes(routerAPI huma.API, monitor contracts.HealthMonitor, path string) {
	huma.Register(
		routerAPI,
		huma.Operation{
			OperationID: "getHealth",
			Method:      http.MethodGet,
			Path:        path,
			Summary:     "Get the health of the service",
			Tags:        []string{"Health"},
		},
		func(_ context.Context, _ *struct{}) (*ServiceHealthResponse, error) {
			return handleHealth(monitor)
		},
	)
}

func handleHealth(monitor contracts.HealthMonitor) (*ServiceHealthResponse, error) {
	data, err := DomainServiceHealth(monitor.Health()).ToAPIType()
	if err != nil {
		return nil, err
	}

	resp := &ServiceHealthResponse{}
	resp.Body = data

	return resp, nil
}

func parseHealthStatus(status domain.HealthStatus) (HealthStatus, error) {
	switch status {
	case domain.HealthStatusOK:
		return HealthStatusOK, nil
	case domain.HealthStatusDegraded:
		return HealthStatusDegraded, nil
	default:
		return "", fmt.Errorf("unknown health status: %s", status)
	}
}
