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
	"gorm.io/gorm/clause"
)

type DefaultCheckoutRepository struct {
	DB *gorm.DB
}

func NewDefaultCheckoutRepository(db *gorm.DB) *DefaultCheckoutRepository {
	return &DefaultCheckoutRepository{DB: db}
}

func (r *DefaultCheckoutRepository) CheckoutCart(
	ctx context.Context,
	buyerID string,
	build func(lines []domain.CartLine) (*domain.Order, error),
) (*domain.Order, error) {
	var created *domain.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.CartModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("buyer_id = ?", buyerID).
			First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrEmptyCart
		}
		if err != nil {
			return fmt.Errorf("failed to lock cart: %w", err)
		}

		var cartItems []models.CartItemModel
		if err := tx.Preload("Product").
			Where("cart_id = ?", cart.ID).
			Order("created_at ASC, id ASC").
			Find(&cartItems).Error; err != nil {
			return fmt.Errorf("failed to read cart items: %w", err)
		}

		lines := make([]domain.CartLine, 0, len(cartItems))
		for i := range cartItems {
			if cartItems[i].Product.ID == "" {
				return fmt.Errorf("product %s is no longer listed", cartItems[i].ProductID)
			}
			lines = append(lines, mappers.ToDomainCartLine(&cartItems[i]))
		}

		order, err := build(lines)
		if err != nil {
			return err
		}

		if err := tx.Create(mappers.ToGORMOrder(order)).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		if err := tx.Model(&cart).Update("updated_at", time.Now().UTC()).Error; err != nil {
			return fmt.Errorf("failed to touch cart: %w", err)
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
