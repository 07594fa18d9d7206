package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus is the status a supplier sets on a product.
type ProductStatus string

const (
	ProductActive     ProductStatus = "active"
	ProductOutOfStock ProductStatus = "out_of_stock"
	ProductHidden     ProductStatus = "hidden"
	ProductDraft      ProductStatus = "draft"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductActive, ProductOutOfStock, ProductHidden, ProductDraft:
		return true
	}
	return false
}

// Product is the inventory record. Stock is the only contended field and the
// database carries a CHECK (stock >= 0) constraint on it.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Name        string          `gorm:"not null;index"`
	Description *string
	BarCode     string          `gorm:"index"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	Status      ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	Image       ImageRef        `gorm:"embedded;embeddedPrefix:image_"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EffectiveStatus is what catalog readers see: an empty shelf reads as
// out_of_stock unless the supplier hid the product (drafts stay drafts).
// A supplier may also mark a stocked product out_of_stock.
func (p *Product) EffectiveStatus() ProductStatus {
	switch p.Status {
	case ProductHidden, ProductDraft, ProductOutOfStock:
		return p.Status
	}
	if p.Stock <= 0 {
		return ProductOutOfStock
	}
	return ProductActive
}

// Orderable reports whether clients may put the product in a cart or order.
func (p *Product) Orderable() bool {
	switch p.Status {
	case ProductActive, ProductOutOfStock:
		return true
	default:
		return false
	}
}
