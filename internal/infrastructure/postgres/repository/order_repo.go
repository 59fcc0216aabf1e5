package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bgoldmann/darkstore/internal/domain"
	"github.com/bgoldmann/darkstore/internal/infrastructure/postgres/mappers"
	"github.com/bgoldmann/darkstore/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.position ASC")
}

func (r *DefaultOrderRepository) getOrder(ctx context.Context, column, value string) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.WithContext(ctx).
		Preload("Items", preloadItems).
		First(&order, column+" = ?", value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order by %s: %w", column, err)
	}
	return mappers.ToDomainOrder(&order), nil
}

func (r *DefaultOrderRepository) GetOrderByRef(ctx context.Context, ref string) (*domain.Order, error) {
	return r.getOrder(ctx, "ref", ref)
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return r.getOrder(ctx, "id", orderID)
}

// UpdateOrder writes the mutable columns only while the stored version equals expectedVersion.
// On success order.Version is expectedVersion+1.
func (r *DefaultOrderRepository) UpdateOrder(ctx context.Context, order *domain.Order, expectedVersion int64) error {
	next := *order
	next.Version = expectedVersion + 1

	result := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", order.ID, expectedVersion).
		Updates(mappers.ToOrderUpdates(&next))
	if result.Error != nil {
		return fmt.Errorf("failed to update order %s: %w", order.Ref, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: order %s at version %d", domain.ErrConcurrentModification, order.Ref, expectedVersion)
	}

	order.Version = next.Version
	return nil
}

func (r *DefaultOrderRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, int64, error) {
	var orderModels []models.OrderModel
	var total int64

	page, limit := normalizePage(filter.Page, filter.Limit)

	baseQuery := r.DB.WithContext(ctx).Model(&models.OrderModel{})
	if filter.BuyerID != "" {
		baseQuery = baseQuery.Where("buyer_id = ?", filter.BuyerID)
	}
	if filter.PrimarySellerID != "" {
		baseQuery = baseQuery.Where("primary_seller_id = ?", filter.PrimarySellerID)
	}
	if filter.EscrowStatus != "" {
		baseQuery = baseQuery.Where("escrow_status = ?", string(filter.EscrowStatus))
	}
	if filter.Status != "" {
		baseQuery = baseQuery.Where("status = ?", string(filter.Status))
	}

	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * limit
	err := baseQuery.
		Preload("Items", preloadItems).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orderModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find orders: %w", err)
	}

	orders := make([]*domain.Order, len(orderModels))
	for i, orderModel := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModel)
	}
	return orders, total, nil
}

// FindUnresolvedPastDeadline returns orders still held in escrow after their auto-finalize deadline.
func (r *DefaultOrderRepository) FindUnresolvedPastDeadline(ctx context.Context, now time.Time, limit int) ([]*domain.Order, error) {
	if limit <= 0 {
		limit = maxPageLimit
	}
	var orderModels []models.OrderModel
	if err := r.DB.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("escrow_status IN ?", []string{string(domain.EscrowAwaitingPayment), string(domain.EscrowInEscrow)}).
		Where("auto_finalize_at < ?", now).
		Order("auto_finalize_at ASC").
		Limit(limit).
		Find(&orderModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find overdue escrows: %w", err)
	}

	orders := make([]*domain.Order, len(orderModels))
	for i, orderModel := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModel)
	}
	return orders, nil
}

type escrowStatusCount struct {
	EscrowStatus string
	Count        int64
}

func (r *DefaultOrderRepository) CountByEscrowStatus(ctx context.Context) (map[domain.EscrowStatus]int64, error) {
	var rows []escrowStatusCount
	if err := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("escrow_status, COUNT(*) AS count").
		Group("escrow_status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders by escrow status: %w", err)
	}

	counts := make(map[domain.EscrowStatus]int64, len(rows))
	for _, row := range rows {
		counts[domain.EscrowStatus(row.EscrowStatus)] = row.Count
	}
	return counts, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
