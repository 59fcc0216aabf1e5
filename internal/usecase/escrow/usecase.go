package usecase

import (
	"context"
	"time"

	"github.com/bgoldmann/darkstore/internal/domain"
	"github.com/bgoldmann/darkstore/internal/infrastructure/logger"
	"github.com/bgoldmann/darkstore/internal/infrastructure/metrics"
	escrowdto "github.com/bgoldmann/darkstore/internal/usecase/dto/escrow"
)

// EscrowUsecase drives the escrow state machine on behalf of an authenticated actor.
// Every mutating call returns the order as it stands afterwards; on rejection that is the
// unchanged order (nil when the actor may not see it) together with the reason.
type EscrowUsecase interface {
	MarkFunded(ctx context.Context, actor domain.Actor, ref string) (*domain.Order, error)
	ReportPayment(ctx context.Context, actor domain.Actor, ref string) (*domain.Order, error)
	ConfirmRelease(ctx context.Context, actor domain.Actor, ref string) (*domain.Order, error)
	OpenDispute(ctx context.Context, actor domain.Actor, ref, evidence string) (*domain.Order, error)
	ResolveDispute(ctx context.Context, actor domain.Actor, ref string, resolution domain.EscrowStatus) (*domain.Order, error)
	CancelEscrow(ctx context.Context, actor domain.Actor, ref string) (*domain.Order, error)
	SetFulfillmentStatus(ctx context.Context, actor domain.Actor, ref string, status domain.OrderStatus) (*domain.Order, error)
	SetOperatorNotes(ctx context.Context, actor domain.Actor, ref, notes string) (*domain.Order, error)

	GetOrder(ctx context.Context, actor domain.Actor, ref string) (*escrowdto.OrderOutput, error)
	ListOrders(ctx context.Context, actor domain.Actor, input *escrowdto.ListOrdersInput) (*escrowdto.ListOrdersOutput, error)
	Project(actor domain.Actor, order *domain.Order) *escrowdto.OrderOutput
}

type DefaultEscrowUsecase struct {
	orderRepo   domain.OrderRepository
	guard       *domain.AuthorizationGuard
	publisher   domain.EscrowEventPublisher
	auditLogger logger.EscrowAuditLogger
	metrics     *metrics.EscrowMetrics

	now      func() time.Time
	runAsync func(func())
}

func NewDefaultEscrowUsecase(
	orderRepo domain.OrderRepository,
	guard *domain.AuthorizationGuard,
	publisher domain.EscrowEventPublisher,
	auditLogger logger.EscrowAuditLogger,
	escrowMetrics *metrics.EscrowMetrics,
) *DefaultEscrowUsecase {
	return &DefaultEscrowUsecase{
		orderRepo:   orderRepo,
		guard:       guard,
		publisher:   publisher,
		auditLogger: auditLogger,
		metrics:     escrowMetrics,
		now:         func() time.Time { return time.Now().UTC() },
		runAsync:    func(f func()) { go f() },
	}
}
