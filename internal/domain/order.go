package domain

import "time"

// OrderStatus is the fulfillment track. Operators move it freely, escrow never derives from it.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusPaid       OrderStatus = "paid"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// EscrowStatus is the custody track of the order funds.
type EscrowStatus string

const (
	EscrowNone             EscrowStatus = "none"
	EscrowAwaitingPayment  EscrowStatus = "awaiting_payment"
	EscrowInEscrow         EscrowStatus = "in_escrow"
	EscrowReleasedToSeller EscrowStatus = "released_to_seller"
	EscrowReleasedToBuyer  EscrowStatus = "released_to_buyer"
	EscrowDisputed         EscrowStatus = "disputed"
	EscrowCancelled        EscrowStatus = "cancelled"
)

func (s EscrowStatus) Valid() bool {
	switch s {
	case EscrowNone, EscrowAwaitingPayment, EscrowInEscrow, EscrowReleasedToSeller,
		EscrowReleasedToBuyer, EscrowDisputed, EscrowCancelled:
		return true
	}
	return false
}

func (s EscrowStatus) Terminal() bool {
	return s == EscrowReleasedToSeller || s == EscrowReleasedToBuyer || s == EscrowCancelled
}

// ValidResolution reports whether s may be recorded as a dispute outcome.
func ValidResolution(s EscrowStatus) bool {
	return s == EscrowReleasedToSeller || s == EscrowReleasedToBuyer
}

type OrderItem struct {
	ID             string
	ProductID      string
	SellerID       string
	Title          string
	UnitPriceCents int64
	Quantity       int32
}

func (i OrderItem) LineTotalCents() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}

// EscrowInfo holds custody metadata. Evidence and address are opaque to the service.
type EscrowInfo struct {
	Status                 EscrowStatus
	AmountCents            int64
	Address                string
	FundedAt               *time.Time
	BuyerReportedPaymentAt *time.Time
	AutoFinalizeAt         time.Time
}

type DisputeInfo struct {
	OpenedAt          *time.Time
	ResolvedAt        *time.Time
	Resolution        EscrowStatus
	EvidenceEncrypted string
}

type Order struct {
	ID              string
	Ref             string
	BuyerID         string
	PrimarySellerID string
	Items           []OrderItem
	Status          OrderStatus
	PaymentMethod   string
	NotesEncrypted  string
	OperatorNotes   string
	Escrow          EscrowInfo
	Dispute         DisputeInfo
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ItemsTotalCents sums the line-item snapshots. It must always equal Escrow.AmountCents.
func (o *Order) ItemsTotalCents() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.LineTotalCents()
	}
	return total
}

// IsParty reports whether the actor is the buyer or the primary seller of the order.
func (o *Order) IsParty(actorID string) bool {
	if actorID == "" {
		return false
	}
	return o.BuyerID == actorID || o.PrimarySellerID == actorID
}

// Clone returns a deep copy so transitions can be computed without touching the loaded record.
func (o *Order) Clone() *Order {
	cp := *o
	cp.Items = append([]OrderItem(nil), o.Items...)
	cp.Escrow.FundedAt = cloneTime(o.Escrow.FundedAt)
	cp.Escrow.BuyerReportedPaymentAt = cloneTime(o.Escrow.BuyerReportedPaymentAt)
	cp.Dispute.OpenedAt = cloneTime(o.Dispute.OpenedAt)
	cp.Dispute.ResolvedAt = cloneTime(o.Dispute.ResolvedAt)
	return &cp
}

// touch keeps UpdatedAt non-decreasing even if the clock steps back.
func (o *Order) touch(now time.Time) {
	if now.After(o.UpdatedAt) {
		o.UpdatedAt = now
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

type OrderFilter struct {
	BuyerID         string
	PrimarySellerID string
	EscrowStatus    EscrowStatus
	Status          OrderStatus
	Page            int
	Limit           int
}
