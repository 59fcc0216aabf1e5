package usecase

import (
	"context"

	"github.com/bgoldmann/darkstore/internal/domain"
)

func (uc *DefaultEscrowUsecase) OpenDispute(ctx context.Context, actor domain.Actor, ref, evidence string) (*domain.Order, error) {
	return uc.execute(ctx, actor, ref, domain.EscrowCommand{
		Action:   domain.ActionOpenDispute,
		Evidence: evidence,
	})
}

func (uc *DefaultEscrowUsecase) ResolveDispute(ctx context.Context, actor domain.Actor, ref string, resolution domain.EscrowStatus) (*domain.Order, error) {
	return uc.execute(ctx, actor, ref, domain.EscrowCommand{
		Action:     domain.ActionResolveDispute,
		Resolution: resolution,
	})
}
