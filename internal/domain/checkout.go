package domain

import (
	"fmt"
	"time"
)

// CartLine is one cart entry priced at the live catalog price.
type CartLine struct {
	ProductID      string
	SellerID       string
	Title          string
	UnitPriceCents int64
	Quantity       int32
}

type Cart struct {
	ID      string
	BuyerID string
	Lines   []CartLine
}

// CheckoutRequest carries everything the snapshot builder needs besides the cart itself.
type CheckoutRequest struct {
	BuyerID        string
	PaymentMethod  string
	NotesEncrypted string
}

// SnapshotBuilder turns a priced cart into an immutable order awaiting payment.
type SnapshotBuilder struct {
	policy AutoFinalizePolicy
	newID  func() string
	newRef func() (string, error)
}

func NewSnapshotBuilder(policy AutoFinalizePolicy, newID func() string, newRef func() (string, error)) *SnapshotBuilder {
	return &SnapshotBuilder{policy: policy, newID: newID, newRef: newRef}
}

// Build snapshots titles and prices at checkout time. The primary seller is the first line's seller;
// multi-seller carts are not reconciled.
func (b *SnapshotBuilder) Build(req CheckoutRequest, lines []CartLine, now time.Time) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	ref, err := b.newRef()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order ref: %w", err)
	}
	orderID := b.newID()
	if ref == orderID {
		return nil, fmt.Errorf("order ref collides with internal id")
	}

	items := make([]OrderItem, 0, len(lines))
	var total int64
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity %d for product %s", line.Quantity, line.ProductID)
		}
		item := OrderItem{
			ID:             b.newID(),
			ProductID:      line.ProductID,
			SellerID:       line.SellerID,
			Title:          line.Title,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
		}
		total += item.LineTotalCents()
		items = append(items, item)
	}

	return &Order{
		ID:              orderID,
		Ref:             ref,
		BuyerID:         req.BuyerID,
		PrimarySellerID: lines[0].SellerID,
		Items:           items,
		Status:          StatusPending,
		PaymentMethod:   req.PaymentMethod,
		NotesEncrypted:  req.NotesEncrypted,
		Escrow: EscrowInfo{
			Status:         EscrowAwaitingPayment,
			AmountCents:    total,
			AutoFinalizeAt: b.policy.Deadline(now),
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
