package model

import (
	"time"

	"github.com/google/uuid"
)

type StockMovementKind string

const (
	MovementOrderCreated  StockMovementKind = "order_created"
	MovementOrderEdited   StockMovementKind = "order_edited"
	MovementOrderDeleted  StockMovementKind = "order_deleted"
	MovementOrderRejected StockMovementKind = "order_rejected"
	MovementManual        StockMovementKind = "manual_adjustment"
)

// StockMovement records every stock change of a product, written in the same
// transaction as the change itself.
type StockMovement struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	Kind        StockMovementKind `gorm:"type:varchar(30);not null"`
	Quantity    int               `gorm:"not null"` // signed: positive restores, negative consumes
	StockBefore int               `gorm:"not null"`
	StockAfter  int               `gorm:"not null"`
	Reason      string
	ReferenceID *uuid.UUID `gorm:"type:uuid"` // order id when applicable
	CreatedAt   time.Time
}
