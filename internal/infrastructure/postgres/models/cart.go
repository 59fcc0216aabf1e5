package models

import "time"

// Catalog and cart tables are owned by the storefront; only the columns checkout reads are mapped.

type ProductModel struct {
	ID         string `gorm:"primaryKey;type:uuid"`
	Title      string `gorm:"size:256;not null"`
	PriceCents int64  `gorm:"not null"`
	SellerID   string `gorm:"not null"`
}

func (ProductModel) TableName() string {
	return "products"
}

type CartModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	BuyerID   string `gorm:"uniqueIndex;not null"`
	UpdatedAt time.Time
}

func (CartModel) TableName() string {
	return "carts"
}

type CartItemModel struct {
	ID        string       `gorm:"primaryKey;type:uuid"`
	CartID    string       `gorm:"type:uuid;index;not null"`
	ProductID string       `gorm:"type:uuid;not null"`
	Product   ProductModel `gorm:"foreignKey:ProductID;references:ID"`
	Quantity  int32        `gorm:"not null;default:1"`
	CreatedAt time.Time
}

func (CartItemModel) TableName() string {
	return "cart_items"
}
