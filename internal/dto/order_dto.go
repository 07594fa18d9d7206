package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LineItemRequest leaves Quantity to the service so every endpoint reports
// a bad quantity as invalid_quantity.
type LineItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity"`
}

type ValidateStockRequest struct {
	Items []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateOrderRequest is the explicit-items submit flow. Total and Tax are the
// client's view; a mismatch with the server's computation is reported back.
type CreateOrderRequest struct {
	ClientID   string            `json:"clientId"   validate:"omitempty,uuid"`
	SupplierID string            `json:"supplierId" validate:"required,uuid"`
	Items      []LineItemRequest `json:"items"      validate:"required,min=1,dive"`
	Total      *decimal.Decimal  `json:"total"`
	Tax        *decimal.Decimal  `json:"tax"`
	Note       *string           `json:"note"       validate:"omitempty,max=500"`
}

// UpdateOrderRequest carries a status transition, a quantity edit, or both.
type UpdateOrderRequest struct {
	OrderID  string            `json:"orderId"  validate:"required,uuid"`
	Status   *string           `json:"status"   validate:"omitempty,oneof=pending processing approved rejected"`
	Items    []LineItemRequest `json:"items"    validate:"omitempty,dive"`
	Note     string            `json:"note"     validate:"max=500"`
	UserID   string            `json:"userId"   validate:"omitempty,uuid"`
	UserRole string            `json:"userRole" validate:"omitempty,oneof=client supplier admin"`
}

type DeleteOrderRequest struct {
	OrderID  string `json:"orderId"  validate:"required,uuid"`
	UserRole string `json:"userRole" validate:"omitempty,oneof=client supplier admin"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type OrderFilter struct {
	Status     string `form:"status"`
	SupplierID string `form:"supplierId"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ShortageResponse struct {
	ProductID string `json:"productId"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

type ValidateStockResponse struct {
	Valid     bool               `json:"valid"`
	Shortages []ShortageResponse `json:"shortages"`
}

type OrderItemResponse struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	BarCode   string          `json:"barCode"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

type OrderNoteResponse struct {
	Message    string  `json:"message"`
	Date       string  `json:"date"`
	UserID     string  `json:"userId"`
	StatusFrom *string `json:"statusFrom,omitempty"`
	StatusTo   *string `json:"statusTo,omitempty"`
}

type OrderResponse struct {
	ID          string              `json:"id"`
	OrderNumber int64               `json:"orderNumber"`
	ClientID    string              `json:"clientId"`
	SupplierID  string              `json:"supplierId"`
	Items       []OrderItemResponse `json:"items"`
	Total       decimal.Decimal     `json:"total"`
	Tax         decimal.Decimal     `json:"tax"`
	Status      string              `json:"status"`
	Notes       []OrderNoteResponse `json:"notes"`
	CreatedAt   string              `json:"createdAt"`
	UpdatedAt   string              `json:"updatedAt"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
