package notifier

import "time"

type CallbackPayload struct {
	OrderRef        string    `json:"order_ref"`
	Action          string    `json:"action"`
	EscrowStatus    string    `json:"escrow_status"`
	PreviousStatus  string    `json:"previous_status,omitempty"`
	BuyerID         string    `json:"buyer_id"`
	PrimarySellerID string    `json:"primary_seller_id"`
	AmountCents     int64     `json:"amount_cents"`
	OccurredAt      time.Time `json:"occurred_at"`
}
