// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Code is a stable machine-readable identifier the client maps to a localized message.
type APIError struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func WithCode(code, msg string) *APIError {
	return &APIError{Detail: msg, Code: code}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation failed", Code: "validation_failed", Fields: fields}
}

// ShortageItem is one line of a stock shortage report.
type ShortageItem struct {
	ProductID string `json:"productId"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// StockError is returned for InsufficientStock / StockShortage so the client
// can cap its inputs at the maximum allowed value.
type StockError struct {
	Detail    string         `json:"detail"`
	Code      string         `json:"code"`
	Available *int           `json:"available,omitempty"`
	Shortages []ShortageItem `json:"shortages,omitempty"`
}

// PriceChangedError carries the server-side totals when the client's view is stale.
type PriceChangedError struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
	Total  string `json:"total"`
	Tax    string `json:"tax"`
}
