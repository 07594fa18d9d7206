package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceHistory rows are immutable.
type PriceHistory struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	PriceBefore decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PriceAfter  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ChangedBy   uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
}

func (PriceHistory) TableName() string { return "price_history" }
