package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bgoldmann/darkstore/internal/domain"
	"github.com/bgoldmann/darkstore/internal/infrastructure/logger"
)

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order

	// onLoad runs after a snapshot is taken, outside the lock.
	onLoad func()
}

func newMemOrderRepo(orders ...*domain.Order) *memOrderRepo {
	r := &memOrderRepo{orders: make(map[string]*domain.Order)}
	for _, o := range orders {
		r.orders[o.Ref] = o.Clone()
	}
	return r
}

func (r *memOrderRepo) GetOrderByRef(_ context.Context, ref string) (*domain.Order, error) {
	r.mu.Lock()
	o, ok := r.orders[ref]
	var snapshot *domain.Order
	if ok {
		snapshot = o.Clone()
	}
	r.mu.Unlock()

	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if r.onLoad != nil {
		r.onLoad()
	}
	return snapshot, nil
}

func (r *memOrderRepo) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == orderID {
			return o.Clone(), nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *memOrderRepo) UpdateOrder(_ context.Context, order *domain.Order, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.Ref]
	if !ok || stored.Version != expectedVersion {
		return domain.ErrConcurrentModification
	}
	order.Version = expectedVersion + 1
	r.orders[order.Ref] = order.Clone()
	return nil
}

func (r *memOrderRepo) ListOrders(_ context.Context, filter domain.OrderFilter) ([]*domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Order
	for _, o := range r.orders {
		if filter.BuyerID != "" && o.BuyerID != filter.BuyerID {
			continue
		}
		if filter.PrimarySellerID != "" && o.PrimarySellerID != filter.PrimarySellerID {
			continue
		}
		if filter.EscrowStatus != "" && o.Escrow.Status != filter.EscrowStatus {
			continue
		}
		out = append(out, o.Clone())
	}
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) FindUnresolvedPastDeadline(_ context.Context, now time.Time, _ int) ([]*domain.Order, error) {
	return nil, nil
}

func (r *memOrderRepo) CountByEscrowStatus(context.Context) (map[domain.EscrowStatus]int64, error) {
	return nil, nil
}

func (r *memOrderRepo) stored(ref string) *domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders[ref].Clone()
}

// barrier makes the first n loads wait for each other, so every caller reads the same version.
func barrier(n int) func() {
	var wg sync.WaitGroup
	wg.Add(n)
	var loads atomic.Int32
	return func() {
		if int(loads.Add(1)) > n {
			return
		}
		wg.Done()
		wg.Wait()
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.EscrowEvent
	err    error
}

func (p *recordingPublisher) PublishEscrowEvent(event domain.EscrowEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type recordingAudit struct {
	mu     sync.Mutex
	events []logger.EscrowAuditEvent
}

func (a *recordingAudit) LogTransition(_ context.Context, event logger.EscrowAuditEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
	return nil
}

var errBrokerDown = errors.New("broker down")
