package model

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the single mutable cart a client keeps per supplier.
// (client_id, supplier_id) is unique; the cart row is removed once empty.
type Cart struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_client_supplier"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_client_supplier"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// CartItem references a product by id only; price and name are read live.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_product"`
	Quantity  int       `gorm:"not null"`
	// Position keeps insertion order stable across quantity updates.
	Position  int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// Item returns the cart line for productID, or nil.
func (c *Cart) Item(productID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
