package models

import (
	"time"
)

type OrderModel struct {
	ID                       string           `gorm:"primaryKey;type:uuid"`
	Ref                      string           `gorm:"uniqueIndex;size:16;not null"`
	BuyerID                  string           `gorm:"index:idx_orders_buyer;not null"`
	PrimarySellerID          string           `gorm:"index:idx_orders_seller"`
	Status                   string           `gorm:"size:32;not null"`
	PaymentMethod            string           `gorm:"size:32"`
	NotesEncrypted           string
	OperatorNotes            string
	EscrowStatus             string           `gorm:"size:32;index:idx_orders_escrow_deadline;not null"`
	EscrowAddress            string           `gorm:"size:512"`
	EscrowAmountCents        int64            `gorm:"not null"`
	EscrowFundedAt           *time.Time
	BuyerReportedPaymentAt   *time.Time
	AutoFinalizeAt           *time.Time       `gorm:"index:idx_orders_escrow_deadline"`
	DisputeOpenedAt          *time.Time
	DisputeResolvedAt        *time.Time
	DisputeResolution        string           `gorm:"size:32"`
	DisputeEvidenceEncrypted string
	Version                  int64            `gorm:"not null;default:1"`
	Items                    []OrderItemModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	CreatedAt                time.Time        `gorm:"index:idx_orders_created_at"`
	UpdatedAt                time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

type OrderItemModel struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	OrderID      string `gorm:"type:uuid;index;not null"`
	Position     int32  `gorm:"not null"`
	ProductID    string `gorm:"not null"`
	SellerID     string `gorm:"not null"`
	ProductTitle string `gorm:"size:256;not null"`
	PriceCents   int64  `gorm:"not null"`
	Quantity     int32  `gorm:"not null"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}
