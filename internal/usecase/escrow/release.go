package usecase

import (
	"context"

	"github.com/bgoldmann/darkstore/internal/domain"
)

func (uc *DefaultEscrowUsecase) ConfirmRelease(ctx context.Context, actor domain.Actor, ref string) (*domain.Order, error) {
	return uc.execute(ctx, actor, ref, domain.EscrowCommand{Action: domain.ActionConfirmRelease})
}

func (uc *DefaultEscrowUsecase) CancelEscrow(ctx context.Context, actor domain.Actor, ref string) (*domain.Order, error) {
	return uc.execute(ctx, actor, ref, domain.EscrowCommand{Action: domain.ActionCancel})
}
