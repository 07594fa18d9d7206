package model

import (
	"time"

	"github.com/google/uuid"
)

type CategoryStatus string

const (
	CategoryShown  CategoryStatus = "shown"
	CategoryHidden CategoryStatus = "hidden"
)

// Category groups one supplier's products.
type Category struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name       string         `gorm:"not null"`
	Status     CategoryStatus `gorm:"type:varchar(10);not null;default:'shown'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName keeps the plural GORM would pick; spelled out for the raw SQL patches.
func (Category) TableName() string { return "categories" }
