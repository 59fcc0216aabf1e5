package escrowdto

import "time"

type OrderItemOutput struct {
	ProductID      string `json:"product_id"`
	SellerID       string `json:"seller_id"`
	Title          string `json:"title"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int32  `json:"quantity"`
	LineTotalCents int64  `json:"line_total_cents"`
}

type EscrowOutput struct {
	Status                 string     `json:"status"`
	AmountCents            int64      `json:"amount_cents"`
	Address                string     `json:"address,omitempty"`
	FundedAt               *time.Time `json:"funded_at,omitempty"`
	BuyerReportedPaymentAt *time.Time `json:"buyer_reported_payment_at,omitempty"`
	AutoFinalizeAt         *time.Time `json:"auto_finalize_at,omitempty"`
}

type DisputeOutput struct {
	OpenedAt          *time.Time `json:"opened_at,omitempty"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
	Resolution        string     `json:"resolution,omitempty"`
	EvidenceEncrypted string     `json:"evidence_encrypted,omitempty"`
}

// OrderOutput is the order as shown to one actor at one instant.
type OrderOutput struct {
	Ref               string            `json:"ref"`
	Status            string            `json:"status"`
	PaymentMethod     string            `json:"payment_method"`
	BuyerID           string            `json:"buyer_id"`
	PrimarySellerID   string            `json:"primary_seller_id"`
	Items             []OrderItemOutput `json:"items"`
	TotalCents        int64             `json:"total_cents"`
	NotesEncrypted    string            `json:"notes_encrypted,omitempty"`
	OperatorNotes     string            `json:"operator_notes,omitempty"`
	Escrow            EscrowOutput      `json:"escrow"`
	Dispute           *DisputeOutput    `json:"dispute,omitempty"`
	AllowedActions    []string          `json:"allowed_actions"`
	DisputeWindowOpen bool              `json:"dispute_window_open"`
	Version           int64             `json:"version"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

type ListOrdersOutput struct {
	Orders     []*OrderOutput `json:"orders"`
	Pagination Pagination     `json:"pagination"`
}

type Pagination struct {
	CurrentPage  int32 `json:"current_page"`
	TotalPages   int32 `json:"total_pages"`
	TotalItems   int32 `json:"total_items"`
	ItemsPerPage int32 `json:"items_per_page"`
}
