package kafka

import (
	"time"

	"github.com/bgoldmann/darkstore/internal/domain"
)

type EscrowEventMessage struct {
	OrderRef          string    `json:"order_ref"`
	Action            string    `json:"action"`
	EscrowStatus      string    `json:"escrow_status"`
	PreviousStatus    string    `json:"previous_status,omitempty"`
	FulfillmentStatus string    `json:"fulfillment_status"`
	ActorID           string    `json:"actor_id"`
	ActorRole         string    `json:"actor_role"`
	BuyerID           string    `json:"buyer_id"`
	PrimarySellerID   string    `json:"primary_seller_id"`
	AmountCents       int64     `json:"amount_cents"`
	OccurredAt        time.Time `json:"occurred_at"`
}

func toMessage(event domain.EscrowEvent) EscrowEventMessage {
	return EscrowEventMessage{
		OrderRef:          event.OrderRef,
		Action:            event.Action,
		EscrowStatus:      string(event.EscrowStatus),
		PreviousStatus:    string(event.PreviousStatus),
		FulfillmentStatus: string(event.FulfillmentStatus),
		ActorID:           event.ActorID,
		ActorRole:         string(event.ActorRole),
		BuyerID:           event.BuyerID,
		PrimarySellerID:   event.PrimarySellerID,
		AmountCents:       event.AmountCents,
		OccurredAt:        event.OccurredAt,
	}
}
