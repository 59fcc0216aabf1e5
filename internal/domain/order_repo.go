package domain

import (
	"context"
	"time"
)

// OrderRepository persists orders. UpdateOrder is a compare-and-swap on Version:
// it writes only if the stored version still equals expectedVersion and returns
// ErrConcurrentModification otherwise.
type OrderRepository interface {
	GetOrderByRef(ctx context.Context, ref string) (*Order, error)
	GetOrderByID(ctx context.Context, orderID string) (*Order, error)
	UpdateOrder(ctx context.Context, order *Order, expectedVersion int64) error
	ListOrders(ctx context.Context, filter OrderFilter) ([]*Order, int64, error)
	FindUnresolvedPastDeadline(ctx context.Context, now time.Time, limit int) ([]*Order, error)
	CountByEscrowStatus(ctx context.Context) (map[EscrowStatus]int64, error)
}

// CheckoutRepository runs checkout as one transaction: the buyer's cart is locked and read,
// build is called with the priced lines, and the returned order with its items is inserted
// while the cart is emptied. Any error rolls everything back.
type CheckoutRepository interface {
	CheckoutCart(ctx context.Context, buyerID string, build func(lines []CartLine) (*Order, error)) (*Order, error)
}

// OrderCache is an optional read cache in front of the repository. Get returns (nil, nil) on a miss.
type OrderCache interface {
	Get(ctx context.Context, ref string) (*Order, error)
	Set(ctx context.Context, order *Order) error
	Invalidate(ctx context.Context, ref string) error
}
