package dto

import "github.com/shopspring/decimal"

type HistoryFilter struct {
	Page  int `form:"page,default=1"    validate:"min=1"`
	Limit int `form:"limit,default=50"  validate:"min=1,max=500"`
}

type StockMovementResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	Kind        string  `json:"kind"`
	Quantity    int     `json:"quantity"`
	StockBefore int     `json:"stockBefore"`
	StockAfter  int     `json:"stockAfter"`
	Reason      string  `json:"reason"`
	ReferenceID *string `json:"referenceId"`
	CreatedAt   string  `json:"createdAt"`
}

type StockMovementListResponse struct {
	Data  []StockMovementResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}

type PriceHistoryResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	PriceBefore decimal.Decimal `json:"priceBefore"`
	PriceAfter  decimal.Decimal `json:"priceAfter"`
	ChangedBy   string          `json:"changedBy"`
	CreatedAt   string          `json:"createdAt"`
}

type PriceHistoryListResponse struct {
	Data  []PriceHistoryResponse `json:"data"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}
