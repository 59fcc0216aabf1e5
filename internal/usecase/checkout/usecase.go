package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bgoldmann/darkstore/internal/domain"
	"github.com/bgoldmann/darkstore/internal/infrastructure/metrics"
	escrowdto "github.com/bgoldmann/darkstore/internal/usecase/dto/escrow"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

const (
	refAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	refLength   = 10
)

type CheckoutUsecase interface {
	Checkout(ctx context.Context, actor domain.Actor, input *escrowdto.CheckoutInput) (*domain.Order, error)
}

type DefaultCheckoutUsecase struct {
	checkoutRepo         domain.CheckoutRepository
	builder              *domain.SnapshotBuilder
	publisher            domain.EscrowEventPublisher
	metrics              *metrics.EscrowMetrics
	defaultPaymentMethod string

	now      func() time.Time
	runAsync func(func())
}

// NewRefGenerator returns the generator for public order references.
func NewRefGenerator() (func() (string, error), error) {
	gen, err := nanoid.CustomASCII(refAlphabet, refLength)
	if err != nil {
		return nil, fmt.Errorf("failed to init ref generator: %w", err)
	}
	return func() (string, error) { return gen(), nil }, nil
}

func NewDefaultCheckoutUsecase(
	checkoutRepo domain.CheckoutRepository,
	policy domain.AutoFinalizePolicy,
	publisher domain.EscrowEventPublisher,
	escrowMetrics *metrics.EscrowMetrics,
	defaultPaymentMethod string,
) (*DefaultCheckoutUsecase, error) {
	newRef, err := NewRefGenerator()
	if err != nil {
		return nil, err
	}
	if defaultPaymentMethod == "" {
		defaultPaymentMethod = "xmr"
	}
	return &DefaultCheckoutUsecase{
		checkoutRepo:         checkoutRepo,
		builder:              domain.NewSnapshotBuilder(policy, func() string { return uuid.New().String() }, newRef),
		publisher:            publisher,
		metrics:              escrowMetrics,
		defaultPaymentMethod: defaultPaymentMethod,
		now:                  func() time.Time { return time.Now().UTC() },
		runAsync:             func(f func()) { go f() },
	}, nil
}

// Checkout turns the buyer's cart into an order awaiting payment and empties the cart, atomically.
func (uc *DefaultCheckoutUsecase) Checkout(ctx context.Context, actor domain.Actor, input *escrowdto.CheckoutInput) (*domain.Order, error) {
	if actor.ID == "" {
		return nil, domain.ErrForbidden
	}

	req := domain.CheckoutRequest{
		BuyerID:        actor.ID,
		PaymentMethod:  input.PaymentMethod,
		NotesEncrypted: input.NotesEncrypted,
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = uc.defaultPaymentMethod
	}

	now := uc.now()
	order, err := uc.checkoutRepo.CheckoutCart(ctx, actor.ID, func(lines []domain.CartLine) (*domain.Order, error) {
		return uc.builder.Build(req, lines, now)
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			uc.metrics.RecordCheckoutFailed("empty_cart")
		} else {
			uc.metrics.RecordCheckoutFailed("error")
			slog.Error("checkout failed", "actor_id", actor.ID, "error", err.Error())
		}
		return nil, err
	}

	uc.metrics.RecordCheckout(order.PaymentMethod, order.Escrow.AmountCents, len(order.Items))
	slog.Info("order placed in escrow",
		"order_ref", order.Ref,
		"actor_id", actor.ID,
		"amount_cents", order.Escrow.AmountCents,
		"items", len(order.Items),
	)

	event := domain.EscrowEvent{
		OrderRef:          order.Ref,
		Action:            "checkout",
		EscrowStatus:      order.Escrow.Status,
		PreviousStatus:    domain.EscrowNone,
		FulfillmentStatus: order.Status,
		ActorID:           actor.ID,
		ActorRole:         actor.Role,
		BuyerID:           order.BuyerID,
		PrimarySellerID:   order.PrimarySellerID,
		AmountCents:       order.Escrow.AmountCents,
		OccurredAt:        order.CreatedAt,
	}
	uc.runAsync(func() {
		if err := uc.publisher.PublishEscrowEvent(event); err != nil {
			uc.metrics.RecordSideEffectError("event")
			slog.Error("failed to publish checkout event", "order_ref", event.OrderRef, "error", err.Error())
		}
	})

	return order, nil
}
