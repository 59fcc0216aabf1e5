package grpcapi

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const ServiceName = "darkstore.escrow.v1.EscrowService"

type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthReporter mirrors database reachability into the standard gRPC health service.
type HealthReporter struct {
	server   *health.Server
	db       Pinger
	interval time.Duration
}

func NewHealthReporter(db Pinger, interval time.Duration) *HealthReporter {
	return &HealthReporter{
		server:   health.NewServer(),
		db:       db,
		interval: interval,
	}
}

// Register attaches health and reflection services to the gRPC server.
func (h *HealthReporter) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
	reflection.Register(s)
}

func (h *HealthReporter) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.db.PingContext(pingCtx); err != nil {
		slog.Warn("database ping failed", "error", err.Error())
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
	return status
}

// Run refreshes the serving status until ctx is done, then marks everything not serving.
func (h *HealthReporter) Run(ctx context.Context) {
	h.Check(ctx)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}
