package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type EscrowAuditEvent struct {
	ID           uint   `gorm:"primaryKey"`
	OrderID      string `gorm:"type:uuid;index"`
	OrderRef     string
	Action       string
	ActorID      string
	ActorRole    string
	FromStatus   string
	ToStatus     string
	OrderVersion int64
	CreatedAt    time.Time
}

func (EscrowAuditEvent) TableName() string {
	return "escrow_audit_events"
}

type EscrowAuditLogger interface {
	LogTransition(ctx context.Context, event EscrowAuditEvent) error
}

type PGEscrowAuditLogger struct {
	db *gorm.DB
}

func NewPGEscrowAuditLogger(db *gorm.DB) *PGEscrowAuditLogger {
	return &PGEscrowAuditLogger{db: db}
}

func (l *PGEscrowAuditLogger) LogTransition(ctx context.Context, event EscrowAuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return l.db.WithContext(ctx).Create(&event).Error
}
