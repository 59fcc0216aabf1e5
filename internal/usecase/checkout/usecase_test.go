package usecase

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/bgoldmann/darkstore/internal/domain"
	"github.com/bgoldmann/darkstore/internal/infrastructure/metrics"
	escrowdto "github.com/bgoldmann/darkstore/internal/usecase/dto/escrow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCheckoutRepo emulates the transactional checkout: the cart is only emptied when build succeeds.
type memCheckoutRepo struct {
	mu     sync.Mutex
	carts  map[string][]domain.CartLine
	orders []*domain.Order
}

func (r *memCheckoutRepo) CheckoutCart(_ context.Context, buyerID string, build func([]domain.CartLine) (*domain.Order, error)) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines := append([]domain.CartLine(nil), r.carts[buyerID]...)
	order, err := build(lines)
	if err != nil {
		return nil, err
	}
	r.orders = append(r.orders, order)
	delete(r.carts, buyerID)
	return order, nil
}

type recordingPublisher struct {
	events []domain.EscrowEvent
}

func (p *recordingPublisher) PublishEscrowEvent(event domain.EscrowEvent) error {
	p.events = append(p.events, event)
	return nil
}

var checkoutAt = time.Date(2026, 2, 1, 15, 30, 0, 0, time.UTC)

func newTestCheckout(t *testing.T, repo *memCheckoutRepo) (*DefaultCheckoutUsecase, *recordingPublisher, *metrics.EscrowMetrics) {
	t.Helper()
	pub := &recordingPublisher{}
	m := metrics.NewEscrowMetrics(prometheus.NewRegistry())
	uc, err := NewDefaultCheckoutUsecase(repo, domain.NewAutoFinalizePolicy(14*24*time.Hour), pub, m, "xmr")
	require.NoError(t, err)
	uc.now = func() time.Time { return checkoutAt }
	uc.runAsync = func(fn func()) { fn() }
	return uc, pub, m
}

func TestCheckout_SnapshotsCartIntoEscrow(t *testing.T) {
	repo := &memCheckoutRepo{carts: map[string][]domain.CartLine{
		"buyer-1": {
			{ProductID: "p1", SellerID: "seller-1", Title: "Widget", UnitPriceCents: 500, Quantity: 2},
			{ProductID: "p2", SellerID: "seller-2", Title: "Gadget", UnitPriceCents: 1200, Quantity: 1},
		},
	}}
	uc, pub, m := newTestCheckout(t, repo)

	order, err := uc.Checkout(context.Background(), domain.Actor{ID: "buyer-1", Role: domain.RoleBuyer}, &escrowdto.CheckoutInput{})
	require.NoError(t, err)

	assert.Equal(t, int64(2200), order.Escrow.AmountCents)
	assert.Equal(t, order.ItemsTotalCents(), order.Escrow.AmountCents)
	assert.Equal(t, domain.EscrowAwaitingPayment, order.Escrow.Status)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, "seller-1", order.PrimarySellerID)
	assert.Equal(t, "buyer-1", order.BuyerID)
	assert.Equal(t, "xmr", order.PaymentMethod)
	assert.Equal(t, checkoutAt.Add(14*24*time.Hour), order.Escrow.AutoFinalizeAt)
	assert.Equal(t, int64(1), order.Version)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Widget", order.Items[0].Title)
	assert.Equal(t, int64(500), order.Items[0].UnitPriceCents)

	assert.Regexp(t, regexp.MustCompile(`^[0-9A-Z]{10}$`), order.Ref)
	assert.NotEqual(t, order.ID, order.Ref)

	assert.Empty(t, repo.carts["buyer-1"])
	require.Len(t, pub.events, 1)
	assert.Equal(t, "checkout", pub.events[0].Action)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckoutsTotal.WithLabelValues("created")))
}

func TestCheckout_EmptyCartCreatesNothing(t *testing.T) {
	repo := &memCheckoutRepo{carts: map[string][]domain.CartLine{}}
	uc, pub, m := newTestCheckout(t, repo)

	order, err := uc.Checkout(context.Background(), domain.Actor{ID: "buyer-1", Role: domain.RoleBuyer}, &escrowdto.CheckoutInput{})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Nil(t, order)
	assert.Empty(t, repo.orders)
	assert.Empty(t, pub.events)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckoutsTotal.WithLabelValues("empty_cart")))
}

func TestCheckout_BuildFailureKeepsCart(t *testing.T) {
	repo := &memCheckoutRepo{carts: map[string][]domain.CartLine{
		"buyer-1": {{ProductID: "p1", SellerID: "seller-1", Title: "Widget", UnitPriceCents: 500, Quantity: 0}},
	}}
	uc, _, _ := newTestCheckout(t, repo)

	_, err := uc.Checkout(context.Background(), domain.Actor{ID: "buyer-1", Role: domain.RoleBuyer}, &escrowdto.CheckoutInput{PaymentMethod: "btc"})
	require.Error(t, err)
	assert.Len(t, repo.carts["buyer-1"], 1)
	assert.Empty(t, repo.orders)
}

func TestCheckout_KeepsRequestedPaymentMethodAndNotes(t *testing.T) {
	repo := &memCheckoutRepo{carts: map[string][]domain.CartLine{
		"buyer-1": {{ProductID: "p1", SellerID: "seller-1", Title: "Widget", UnitPriceCents: 700, Quantity: 3}},
	}}
	uc, _, _ := newTestCheckout(t, repo)

	order, err := uc.Checkout(context.Background(), domain.Actor{ID: "buyer-1", Role: domain.RoleBuyer}, &escrowdto.CheckoutInput{
		PaymentMethod:  "btc",
		NotesEncrypted: "-----BEGIN PGP MESSAGE-----",
	})
	require.NoError(t, err)
	assert.Equal(t, "btc", order.PaymentMethod)
	assert.Equal(t, "-----BEGIN PGP MESSAGE-----", order.NotesEncrypted)
	assert.Equal(t, int64(2100), order.Escrow.AmountCents)
}
