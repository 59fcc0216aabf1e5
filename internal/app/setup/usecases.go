package setup

import (
	"fmt"

	"github.com/bgoldmann/darkstore/internal/domain"
	checkoutuc "github.com/bgoldmann/darkstore/internal/usecase/checkout"
	escrowuc "github.com/bgoldmann/darkstore/internal/usecase/escrow"
)

type UseCases struct {
	EscrowUsecase   escrowuc.EscrowUsecase
	CheckoutUsecase checkoutuc.CheckoutUsecase
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	cfg := deps.Config
	guard := domain.NewAuthorizationGuard(DisputeResolverRoles(cfg))
	policy := domain.NewAutoFinalizePolicy(cfg.Escrow.GracePeriod())

	escrowUsecase := escrowuc.NewDefaultEscrowUsecase(
		deps.Repositories.OrderRepo,
		guard,
		deps.Publisher,
		deps.AuditLogger,
		deps.Metrics,
	)

	checkoutUsecase, err := checkoutuc.NewDefaultCheckoutUsecase(
		deps.Repositories.CheckoutRepo,
		policy,
		deps.Publisher,
		deps.Metrics,
		cfg.Escrow.DefaultPaymentMethod,
	)
	if err != nil {
		return nil, fmt.Errorf("checkout usecase: %w", err)
	}

	return &UseCases{
		EscrowUsecase:   escrowUsecase,
		CheckoutUsecase: checkoutUsecase,
	}, nil
}
