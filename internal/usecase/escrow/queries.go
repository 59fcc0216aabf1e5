package usecase

import (
	"context"
	"fmt"

	"github.com/bgoldmann/darkstore/internal/domain"
	escrowdto "github.com/bgoldmann/darkstore/internal/usecase/dto/escrow"
)

const (
	ScopePurchases = "purchases"
	ScopeSales     = "sales"
)

func (uc *DefaultEscrowUsecase) GetOrder(ctx context.Context, actor domain.Actor, ref string) (*escrowdto.OrderOutput, error) {
	order, err := uc.orderRepo.GetOrderByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !uc.guard.CanView(actor, order) {
		return nil, domain.ErrOrderNotFound
	}
	return uc.Project(actor, order), nil
}

// ListOrders scopes non-operators to their own purchases or sales. Operators may filter freely.
func (uc *DefaultEscrowUsecase) ListOrders(ctx context.Context, actor domain.Actor, input *escrowdto.ListOrdersInput) (*escrowdto.ListOrdersOutput, error) {
	filter := domain.OrderFilter{
		EscrowStatus: domain.EscrowStatus(input.EscrowStatus),
		Status:       domain.OrderStatus(input.Status),
		Page:         input.Page,
		Limit:        input.Limit,
	}
	if filter.EscrowStatus != "" && !filter.EscrowStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown escrow status %q", domain.ErrInvalidFilter, input.EscrowStatus)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrInvalidFilter, input.Status)
	}

	switch {
	case actor.IsOperator():
		filter.BuyerID = input.BuyerID
		filter.PrimarySellerID = input.SellerID
	case input.Scope == ScopeSales || (input.Scope == "" && actor.Role == domain.RoleSeller):
		filter.PrimarySellerID = actor.ID
	default:
		filter.BuyerID = actor.ID
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	orders, total, err := uc.orderRepo.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}

	outputs := make([]*escrowdto.OrderOutput, len(orders))
	for i, order := range orders {
		outputs[i] = uc.Project(actor, order)
	}

	totalPages := (total + int64(filter.Limit) - 1) / int64(filter.Limit)
	return &escrowdto.ListOrdersOutput{
		Orders: outputs,
		Pagination: escrowdto.Pagination{
			CurrentPage:  int32(filter.Page),
			TotalPages:   int32(totalPages),
			TotalItems:   int32(total),
			ItemsPerPage: int32(filter.Limit),
		},
	}, nil
}

// Project renders the order for one actor, evaluating the deadline against the current clock.
func (uc *DefaultEscrowUsecase) Project(actor domain.Actor, order *domain.Order) *escrowdto.OrderOutput {
	now := uc.now()

	items := make([]escrowdto.OrderItemOutput, len(order.Items))
	for i, item := range order.Items {
		items[i] = escrowdto.OrderItemOutput{
			ProductID:      item.ProductID,
			SellerID:       item.SellerID,
			Title:          item.Title,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			LineTotalCents: item.LineTotalCents(),
		}
	}

	allowed := domain.AllowedActions(uc.guard, actor, order, now)
	actions := make([]string, len(allowed))
	for i, a := range allowed {
		actions[i] = string(a)
	}

	out := &escrowdto.OrderOutput{
		Ref:             order.Ref,
		Status:          string(order.Status),
		PaymentMethod:   order.PaymentMethod,
		BuyerID:         order.BuyerID,
		PrimarySellerID: order.PrimarySellerID,
		Items:           items,
		TotalCents:      order.ItemsTotalCents(),
		NotesEncrypted:  order.NotesEncrypted,
		Escrow: escrowdto.EscrowOutput{
			Status:                 string(order.Escrow.Status),
			AmountCents:            order.Escrow.AmountCents,
			Address:                order.Escrow.Address,
			FundedAt:               order.Escrow.FundedAt,
			BuyerReportedPaymentAt: order.Escrow.BuyerReportedPaymentAt,
		},
		AllowedActions:    actions,
		DisputeWindowOpen: domain.DisputeWindowOpen(order, now),
		Version:           order.Version,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
	if !order.Escrow.AutoFinalizeAt.IsZero() {
		deadline := order.Escrow.AutoFinalizeAt
		out.Escrow.AutoFinalizeAt = &deadline
	}
	if order.Dispute.OpenedAt != nil {
		out.Dispute = &escrowdto.DisputeOutput{
			OpenedAt:          order.Dispute.OpenedAt,
			ResolvedAt:        order.Dispute.ResolvedAt,
			Resolution:        string(order.Dispute.Resolution),
			EvidenceEncrypted: order.Dispute.EvidenceEncrypted,
		}
	}
	if actor.IsOperator() {
		out.OperatorNotes = order.OperatorNotes
	}
	return out
}
