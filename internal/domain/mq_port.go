package domain

import "time"

// EscrowEvent is emitted after an order is created or a transition is persisted.
type EscrowEvent struct {
	OrderRef          string
	Action            string
	EscrowStatus      EscrowStatus
	PreviousStatus    EscrowStatus
	FulfillmentStatus OrderStatus
	ActorID           string
	ActorRole         Role
	BuyerID           string
	PrimarySellerID   string
	AmountCents       int64
	OccurredAt        time.Time
}

type EscrowEventPublisher interface {
	PublishEscrowEvent(event EscrowEvent) error
}
