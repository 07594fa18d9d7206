package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CartItemRequest is the body of POST/PUT/DELETE /api/cart.
// ClientID is optional; when present it must match the authenticated client.
type CartItemRequest struct {
	ClientID   string `json:"clientId"   validate:"omitempty,uuid"`
	SupplierID string `json:"supplierId" validate:"required,uuid"`
	ProductID  string `json:"productId"  validate:"required,uuid"`
	Quantity   int    `json:"quantity"`
}

// CartRemoveRequest is the body of DELETE /api/cart.
type CartRemoveRequest struct {
	ClientID   string `json:"clientId"   validate:"omitempty,uuid"`
	SupplierID string `json:"supplierId" validate:"required,uuid"`
	ProductID  string `json:"productId"  validate:"required,uuid"`
}

// CartRefRequest identifies a whole cart (clear, submit).
type CartRefRequest struct {
	ClientID   string  `json:"clientId"   validate:"omitempty,uuid"`
	SupplierID string  `json:"supplierId" validate:"required,uuid"`
	Note       *string `json:"note"       validate:"omitempty,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CartItemResponse struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Stock     int             `json:"stock"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
}

type CartResponse struct {
	ID         string             `json:"id"`
	ClientID   string             `json:"clientId"`
	SupplierID string             `json:"supplierId"`
	Items      []CartItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
	UpdatedAt  string             `json:"updatedAt"`
}

// CartMutationResponse is returned by addItem / setQuantity. Available is
// live stock minus the resulting line quantity.
type CartMutationResponse struct {
	Cart      *CartResponse `json:"cart"`
	Available int           `json:"available"`
}
