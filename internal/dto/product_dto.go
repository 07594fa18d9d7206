package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ImageRefDTO struct {
	PublicID  string `json:"public_id"  validate:"required_with=SecureURL"`
	SecureURL string `json:"secure_url" validate:"omitempty,url"`
}

type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required,min=2,max=120"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
	BarCode     string          `json:"barCode"     validate:"omitempty,min=6,max=32"`
	CategoryID  *string         `json:"categoryId"  validate:"omitempty,uuid"`
	Price       decimal.Decimal `json:"price"       validate:"min=0"`
	Stock       int             `json:"stock"       validate:"min=0"`
	Status      string          `json:"status"      validate:"omitempty,oneof=active out_of_stock hidden draft"`
	Image       *ImageRefDTO    `json:"image"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=2,max=120"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	BarCode     *string          `json:"barCode"     validate:"omitempty,min=6,max=32"`
	CategoryID  *string          `json:"categoryId"  validate:"omitempty,uuid"`
	Price       *decimal.Decimal `json:"price"`
	Status      *string          `json:"status"      validate:"omitempty,oneof=active out_of_stock hidden draft"`
	Image       *ImageRefDTO     `json:"image"`
}

// AdjustStockRequest applies a signed delta. The result may never go below zero.
type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3,max=200"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	SupplierID string `form:"supplierId"`
	CategoryID string `form:"categoryId"`
	Status     string `form:"status"`
	Name       string `form:"name"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
	// set by the service: hidden/draft products are only listed to their owner
	OwnerID string `form:"-"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          string          `json:"id"`
	SupplierID  string          `json:"supplierId"`
	CategoryID  *string         `json:"categoryId"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	BarCode     string          `json:"barCode"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      string          `json:"status"`
	Image       *ImageRefDTO    `json:"image,omitempty"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

// BarcodeLookupResponse is the cached lookup by bar code.
type BarcodeLookupResponse struct {
	ProductID  string          `json:"productId"`
	SupplierID string          `json:"supplierId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	Status     string          `json:"status"`
}
