// Package grpc exposes the standard gRPC health service for the product API.
package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name reported alongside the overall ("") status.
const ServiceName = "productapi.ProductAPI"

// Health reports SERVING while the HTTP API is up and NOT_SERVING once shutdown starts.
type Health struct {
	server *health.Server
}

func NewHealth() *Health {
	h := &Health{server: health.NewServer()}
	h.set(grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	return h
}

// Register installs the health service on s. It matches server.RegistrationFunc.
func (h *Health) Register(s *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(s, h.server)
}

func (h *Health) Serving() {
	h.set(grpc_health_v1.HealthCheckResponse_SERVING)
}

// Shutdown marks every service NOT_SERVING and ends open Watch streams.
func (h *Health) Shutdown() {
	h.server.Shutdown()
}

func (h *Health) set(status grpc_health_v1.HealthCheckResponse_ServingStatus) {
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
}
