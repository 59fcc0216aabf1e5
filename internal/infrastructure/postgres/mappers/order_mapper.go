package mappers

import (
	"sort"
	"time"

	"github.com/bgoldmann/darkstore/internal/domain"
	"github.com/bgoldmann/darkstore/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	items := make([]models.OrderItemModel, len(model.Items))
	copy(items, model.Items)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})

	order := &domain.Order{
		ID:              model.ID,
		Ref:             model.Ref,
		BuyerID:         model.BuyerID,
		PrimarySellerID: model.PrimarySellerID,
		Items:           make([]domain.OrderItem, len(items)),
		Status:          domain.OrderStatus(model.Status),
		PaymentMethod:   model.PaymentMethod,
		NotesEncrypted:  model.NotesEncrypted,
		OperatorNotes:   model.OperatorNotes,
		Escrow: domain.EscrowInfo{
			Status:                 domain.EscrowStatus(model.EscrowStatus),
			AmountCents:            model.EscrowAmountCents,
			Address:                model.EscrowAddress,
			FundedAt:               model.EscrowFundedAt,
			BuyerReportedPaymentAt: model.BuyerReportedPaymentAt,
		},
		Dispute: domain.DisputeInfo{
			OpenedAt:          model.DisputeOpenedAt,
			ResolvedAt:        model.DisputeResolvedAt,
			Resolution:        domain.EscrowStatus(model.DisputeResolution),
			EvidenceEncrypted: model.DisputeEvidenceEncrypted,
		},
		Version:   model.Version,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if order.Escrow.Status == "" {
		order.Escrow.Status = domain.EscrowNone
	}
	if model.AutoFinalizeAt != nil {
		order.Escrow.AutoFinalizeAt = *model.AutoFinalizeAt
	}
	for i, item := range items {
		order.Items[i] = ToDomainOrderItem(&item)
	}
	return order
}

func ToDomainOrderItem(model *models.OrderItemModel) domain.OrderItem {
	return domain.OrderItem{
		ID:             model.ID,
		ProductID:      model.ProductID,
		SellerID:       model.SellerID,
		Title:          model.ProductTitle,
		UnitPriceCents: model.PriceCents,
		Quantity:       model.Quantity,
	}
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	model := &models.OrderModel{
		ID:                       order.ID,
		Ref:                      order.Ref,
		BuyerID:                  order.BuyerID,
		PrimarySellerID:          order.PrimarySellerID,
		Status:                   string(order.Status),
		PaymentMethod:            order.PaymentMethod,
		NotesEncrypted:           order.NotesEncrypted,
		OperatorNotes:            order.OperatorNotes,
		EscrowStatus:             string(order.Escrow.Status),
		EscrowAddress:            order.Escrow.Address,
		EscrowAmountCents:        order.Escrow.AmountCents,
		EscrowFundedAt:           order.Escrow.FundedAt,
		BuyerReportedPaymentAt:   order.Escrow.BuyerReportedPaymentAt,
		AutoFinalizeAt:           nullableTime(order.Escrow.AutoFinalizeAt),
		DisputeOpenedAt:          order.Dispute.OpenedAt,
		DisputeResolvedAt:        order.Dispute.ResolvedAt,
		DisputeResolution:        string(order.Dispute.Resolution),
		DisputeEvidenceEncrypted: order.Dispute.EvidenceEncrypted,
		Version:                  order.Version,
		CreatedAt:                order.CreatedAt,
		UpdatedAt:                order.UpdatedAt,
		Items:                    make([]models.OrderItemModel, len(order.Items)),
	}
	for i, item := range order.Items {
		model.Items[i] = models.OrderItemModel{
			ID:           item.ID,
			OrderID:      order.ID,
			Position:     int32(i),
			ProductID:    item.ProductID,
			SellerID:     item.SellerID,
			ProductTitle: item.Title,
			PriceCents:   item.UnitPriceCents,
			Quantity:     item.Quantity,
		}
	}
	return model
}

// ToOrderUpdates lists the mutable columns written by a transition. Items, parties,
// amounts and the creation stamp are never part of an update.
func ToOrderUpdates(order *domain.Order) map[string]interface{} {
	return map[string]interface{}{
		"status":                     string(order.Status),
		"operator_notes":             order.OperatorNotes,
		"escrow_status":              string(order.Escrow.Status),
		"escrow_funded_at":           order.Escrow.FundedAt,
		"buyer_reported_payment_at":  order.Escrow.BuyerReportedPaymentAt,
		"dispute_opened_at":          order.Dispute.OpenedAt,
		"dispute_resolved_at":        order.Dispute.ResolvedAt,
		"dispute_resolution":         string(order.Dispute.Resolution),
		"dispute_evidence_encrypted": order.Dispute.EvidenceEncrypted,
		"version":                    order.Version,
		"updated_at":                 order.UpdatedAt,
	}
}

func ToDomainCartLine(model *models.CartItemModel) domain.CartLine {
	return domain.CartLine{
		ProductID:      model.ProductID,
		SellerID:       model.Product.SellerID,
		Title:          model.Product.Title,
		UnitPriceCents: model.Product.PriceCents,
		Quantity:       model.Quantity,
	}
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
