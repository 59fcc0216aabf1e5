package background

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bgoldmann/darkstore/internal/domain"
	"github.com/bgoldmann/darkstore/internal/infrastructure/metrics"
)

const overdueScanLimit = 500

// BackgroundTasks only observes orders. Deadlines are enforced lazily on access,
// so nothing here ever transitions an order.
type BackgroundTasks struct {
	OrderRepo    domain.OrderRepository
	Metrics      *metrics.EscrowMetrics
	ScanInterval time.Duration

	now func() time.Time
}

func NewBackgroundTasks(orderRepo domain.OrderRepository, escrowMetrics *metrics.EscrowMetrics, scanInterval time.Duration) *BackgroundTasks {
	if scanInterval <= 0 {
		scanInterval = time.Minute
	}
	return &BackgroundTasks{
		OrderRepo:    orderRepo,
		Metrics:      escrowMetrics,
		ScanInterval: scanInterval,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startEscrowMonitor(ctx)
}

func (bt *BackgroundTasks) startEscrowMonitor(ctx context.Context) {
	ticker := time.NewTicker(bt.ScanInterval)
	defer ticker.Stop()

	bt.runEscrowMonitor(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.runEscrowMonitor(ctx)
		}
	}
}

func (bt *BackgroundTasks) runEscrowMonitor(ctx context.Context) {
	if err := bt.RefreshEscrowGauges(ctx); err != nil {
		slog.Error("escrow gauge refresh failed", "error", err.Error())
	}
	if _, err := bt.ScanOverdueEscrows(ctx); err != nil {
		slog.Error("overdue escrow scan failed", "error", err.Error())
	}
}

func (bt *BackgroundTasks) RefreshEscrowGauges(ctx context.Context) error {
	counts, err := bt.OrderRepo.CountByEscrowStatus(ctx)
	if err != nil {
		return fmt.Errorf("count by escrow status: %w", err)
	}
	snapshot := make(map[string]int64, len(counts))
	for status, n := range counts {
		snapshot[string(status)] = n
	}
	bt.Metrics.SetEscrowStatusCounts(snapshot)
	return nil
}

// ScanOverdueEscrows reports orders still holding funds after their auto-finalize deadline
// so operators can chase them. It returns how many were found.
func (bt *BackgroundTasks) ScanOverdueEscrows(ctx context.Context) (int, error) {
	now := bt.now()
	overdue, err := bt.OrderRepo.FindUnresolvedPastDeadline(ctx, now, overdueScanLimit)
	if err != nil {
		return 0, fmt.Errorf("find overdue escrows: %w", err)
	}

	bt.Metrics.SetOverdue(len(overdue))
	for _, order := range overdue {
		slog.Warn("escrow past auto-finalize deadline",
			"order_ref", order.Ref,
			"escrow_status", order.Escrow.Status,
			"auto_finalize_at", order.Escrow.AutoFinalizeAt,
			"overdue_by", now.Sub(order.Escrow.AutoFinalizeAt).Round(time.Minute).String(),
		)
	}
	return len(overdue), nil
}
