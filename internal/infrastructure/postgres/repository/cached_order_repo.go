package repository

import (
	"context"
	"log/slog"

	"github.com/bgoldmann/darkstore/internal/domain"
)

// CachedOrderRepository serves GetOrderByRef from the cache and refreshes the entry on every write.
// Cache failures fall through to the wrapped repository.
type CachedOrderRepository struct {
	domain.OrderRepository
	cache domain.OrderCache
}

func NewCachedOrderRepository(repo domain.OrderRepository, cache domain.OrderCache) *CachedOrderRepository {
	return &CachedOrderRepository{OrderRepository: repo, cache: cache}
}

func (r *CachedOrderRepository) GetOrderByRef(ctx context.Context, ref string) (*domain.Order, error) {
	cached, err := r.cache.Get(ctx, ref)
	if err != nil {
		slog.Warn("order cache read failed", "order_ref", ref, "error", err.Error())
	}
	if cached != nil {
		return cached, nil
	}

	order, err := r.OrderRepository.GetOrderByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, order); err != nil {
		slog.Warn("order cache write failed", "order_ref", ref, "error", err.Error())
	}
	return order, nil
}

// UpdateOrder writes the committed order through to the cache. The cache only accepts
// versions newer than what it holds, so a concurrent reader filling an older read loses.
func (r *CachedOrderRepository) UpdateOrder(ctx context.Context, order *domain.Order, expectedVersion int64) error {
	if err := r.OrderRepository.UpdateOrder(ctx, order, expectedVersion); err != nil {
		r.invalidate(ctx, order.Ref)
		return err
	}
	if err := r.cache.Set(ctx, order); err != nil {
		slog.Warn("order cache write-through failed", "order_ref", order.Ref, "error", err.Error())
		r.invalidate(ctx, order.Ref)
	}
	return nil
}

func (r *CachedOrderRepository) invalidate(ctx context.Context, ref string) {
	if err := r.cache.Invalidate(ctx, ref); err != nil {
		slog.Warn("order cache invalidation failed", "order_ref", ref, "error", err.Error())
	}
}
