package usecase

import (
	"context"

	"github.com/bgoldmann/darkstore/internal/domain"
)

// SetFulfillmentStatus moves the fulfillment track only. Escrow status is never derived from it.
func (uc *DefaultEscrowUsecase) SetFulfillmentStatus(ctx context.Context, actor domain.Actor, ref string, status domain.OrderStatus) (*domain.Order, error) {
	return uc.execute(ctx, actor, ref, domain.EscrowCommand{
		Action:            domain.ActionSetFulfillment,
		FulfillmentStatus: status,
	})
}

func (uc *DefaultEscrowUsecase) SetOperatorNotes(ctx context.Context, actor domain.Actor, ref, notes string) (*domain.Order, error) {
	return uc.execute(ctx, actor, ref, domain.EscrowCommand{
		Action: domain.ActionSetOperatorNotes,
		Notes:  notes,
	})
}
