package usecase

import (
	"context"

	"github.com/bgoldmann/darkstore/internal/domain"
)

// MarkFunded is the operator attesting that the off-platform payment arrived.
func (uc *DefaultEscrowUsecase) MarkFunded(ctx context.Context, actor domain.Actor, ref string) (*domain.Order, error) {
	return uc.execute(ctx, actor, ref, domain.EscrowCommand{Action: domain.ActionMarkFunded})
}

// ReportPayment only stamps the buyer's claim; escrow status stays awaiting_payment.
func (uc *DefaultEscrowUsecase) ReportPayment(ctx context.Context, actor domain.Actor, ref string) (*domain.Order, error) {
	return uc.execute(ctx, actor, ref, domain.EscrowCommand{Action: domain.ActionReportPayment})
}
