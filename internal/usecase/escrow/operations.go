package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bgoldmann/darkstore/internal/domain"
	"github.com/bgoldmann/darkstore/internal/infrastructure/logger"
)

// EscrowOperation describes one requested transition.
type EscrowOperation struct {
	OrderRef  string
	Actor     domain.Actor
	Command   domain.EscrowCommand
	CreatedAt time.Time
}

type transitionResult struct {
	before *domain.Order
	after  *domain.Order
}

// ProcessEscrowOperation is the single path every transition takes:
// load, authorize, apply to a copy, compare-and-swap save, then side effects.
func (uc *DefaultEscrowUsecase) ProcessEscrowOperation(ctx context.Context, op *EscrowOperation) (*domain.Order, error) {
	if op.CreatedAt.IsZero() {
		op.CreatedAt = uc.now()
	}

	res, err := uc.processCriticalOperations(ctx, op)
	if err != nil {
		uc.recordFailure(op, err)
		if res != nil {
			return res.before, err
		}
		return nil, err
	}

	uc.scheduleNonCriticalOperations(ctx, op, res)
	return res.after, nil
}

func (uc *DefaultEscrowUsecase) processCriticalOperations(ctx context.Context, op *EscrowOperation) (*transitionResult, error) {
	current, err := uc.orderRepo.GetOrderByRef(ctx, op.OrderRef)
	if err != nil {
		return nil, err
	}

	if err := uc.guard.Authorize(op.Actor, current, op.Command.Action); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, err
		}
		return &transitionResult{before: current}, err
	}

	next := current.Clone()
	if err := domain.ApplyEscrowCommand(next, op.Command, uc.now()); err != nil {
		return &transitionResult{before: current}, err
	}

	if err := uc.orderRepo.UpdateOrder(ctx, next, current.Version); err != nil {
		if errors.Is(err, domain.ErrConcurrentModification) {
			// show the winner's state, not the one this caller started from
			if fresh, reloadErr := uc.orderRepo.GetOrderByRef(ctx, op.OrderRef); reloadErr == nil {
				return &transitionResult{before: fresh}, err
			}
		}
		return &transitionResult{before: current}, err
	}

	return &transitionResult{before: current, after: next}, nil
}

// scheduleNonCriticalOperations publishes the event and writes the audit row.
// Failures are logged only; the transition is already durable.
func (uc *DefaultEscrowUsecase) scheduleNonCriticalOperations(ctx context.Context, op *EscrowOperation, res *transitionResult) {
	before, after := res.before, res.after
	uc.metrics.RecordTransition(
		string(op.Command.Action),
		string(before.Escrow.Status),
		string(after.Escrow.Status),
		after.Escrow.AmountCents,
		uc.now().Sub(op.CreatedAt).Seconds(),
	)

	slog.Info("escrow transition applied",
		"order_ref", after.Ref,
		"action", op.Command.Action,
		"actor_id", op.Actor.ID,
		"from", before.Escrow.Status,
		"to", after.Escrow.Status,
		"version", after.Version,
	)

	event := domain.EscrowEvent{
		OrderRef:          after.Ref,
		Action:            string(op.Command.Action),
		EscrowStatus:      after.Escrow.Status,
		PreviousStatus:    before.Escrow.Status,
		FulfillmentStatus: after.Status,
		ActorID:           op.Actor.ID,
		ActorRole:         op.Actor.Role,
		BuyerID:           after.BuyerID,
		PrimarySellerID:   after.PrimarySellerID,
		AmountCents:       after.Escrow.AmountCents,
		OccurredAt:        after.UpdatedAt,
	}
	audit := logger.EscrowAuditEvent{
		OrderID:      after.ID,
		OrderRef:     after.Ref,
		Action:       string(op.Command.Action),
		ActorID:      op.Actor.ID,
		ActorRole:    string(op.Actor.Role),
		FromStatus:   string(before.Escrow.Status),
		ToStatus:     string(after.Escrow.Status),
		OrderVersion: after.Version,
		CreatedAt:    after.UpdatedAt,
	}
	detached := context.WithoutCancel(ctx)

	uc.runAsync(func() {
		if err := uc.publisher.PublishEscrowEvent(event); err != nil {
			uc.metrics.RecordSideEffectError("event")
			slog.Error("failed to publish escrow event", "order_ref", event.OrderRef, "error", err.Error())
		}
	})
	uc.runAsync(func() {
		if err := uc.auditLogger.LogTransition(detached, audit); err != nil {
			uc.metrics.RecordSideEffectError("audit")
			slog.Error("failed to write escrow audit event", "order_ref", audit.OrderRef, "error", err.Error())
		}
	})
}

func (uc *DefaultEscrowUsecase) recordFailure(op *EscrowOperation, err error) {
	action := string(op.Command.Action)
	switch {
	case errors.Is(err, domain.ErrConcurrentModification):
		uc.metrics.RecordConflict(action)
		slog.Warn("escrow transition lost a race", "order_ref", op.OrderRef, "action", action, "actor_id", op.Actor.ID)
		return
	case errors.Is(err, domain.ErrOrderNotFound):
		uc.metrics.RecordRejection(action, "not_found")
	case errors.Is(err, domain.ErrForbidden):
		uc.metrics.RecordRejection(action, "forbidden")
	case errors.Is(err, domain.ErrInvalidStateTransition), errors.Is(err, domain.ErrUnknownAction):
		uc.metrics.RecordRejection(action, "invalid_transition")
	default:
		uc.metrics.RecordRejection(action, "error")
		slog.Error("escrow transition failed", "order_ref", op.OrderRef, "action", action, "error", err.Error())
		return
	}
	slog.Debug("escrow transition rejected", "order_ref", op.OrderRef, "action", action, "actor_id", op.Actor.ID, "error", err.Error())
}

func (uc *DefaultEscrowUsecase) execute(ctx context.Context, actor domain.Actor, ref string, cmd domain.EscrowCommand) (*domain.Order, error) {
	return uc.ProcessEscrowOperation(ctx, &EscrowOperation{
		OrderRef:  ref,
		Actor:     actor,
		Command:   cmd,
		CreatedAt: uc.now(),
	})
}
