package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrorKind classifies business failures. Handlers map kinds to HTTP status
// codes; messages are safe to show to end users.
type ErrorKind string

const (
	KindInvalidInput            ErrorKind = "invalid_input"
	KindInvalidQuantity         ErrorKind = "invalid_quantity"
	KindInsufficientStock       ErrorKind = "insufficient_stock"
	KindStockShortage           ErrorKind = "stock_shortage"
	KindEmptyCart               ErrorKind = "empty_cart"
	KindItemNotInCart           ErrorKind = "item_not_in_cart"
	KindProductSupplierMismatch ErrorKind = "product_supplier_mismatch"
	KindProductUnavailable      ErrorKind = "product_unavailable"
	KindNoteRequired            ErrorKind = "note_required"
	KindOrderIsFinal            ErrorKind = "order_is_final"
	KindInvalidTransition       ErrorKind = "invalid_transition"
	KindPriceChanged            ErrorKind = "price_changed"
	KindConcurrentUpdate        ErrorKind = "concurrent_update"
	KindCategoryNotEmpty        ErrorKind = "category_not_empty"
	KindDuplicate               ErrorKind = "duplicate"
	KindForbidden               ErrorKind = "forbidden"
	KindNotFound                ErrorKind = "not_found"
)

// Shortage is one line the inventory cannot cover.
type Shortage struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

// DomainError is returned by every service for expected failures.
// errors.Is matches on Kind only, so the package-level sentinels work as
// targets regardless of message or payload.
type DomainError struct {
	Kind    ErrorKind
	Message string

	// InsufficientStock
	Available *int
	// StockShortage
	Shortages []Shortage
	// PriceChanged
	Total *decimal.Decimal
	Tax   *decimal.Decimal
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidQuantity    = &DomainError{Kind: KindInvalidQuantity, Message: "quantity must be at least 1"}
	ErrInsufficientStock  = &DomainError{Kind: KindInsufficientStock, Message: "not enough stock for the requested quantity"}
	ErrStockShortage      = &DomainError{Kind: KindStockShortage, Message: "some items are no longer available in the requested quantity"}
	ErrEmptyCart          = &DomainError{Kind: KindEmptyCart, Message: "the cart is empty"}
	ErrItemNotInCart      = &DomainError{Kind: KindItemNotInCart, Message: "the product is not in the cart"}
	ErrSupplierMismatch   = &DomainError{Kind: KindProductSupplierMismatch, Message: "the product does not belong to this supplier"}
	ErrProductUnavailable = &DomainError{Kind: KindProductUnavailable, Message: "the product is not available"}
	ErrNoteRequired       = &DomainError{Kind: KindNoteRequired, Message: "a note is required to reject an order"}
	ErrOrderIsFinal       = &DomainError{Kind: KindOrderIsFinal, Message: "the order is already closed"}
	ErrInvalidTransition  = &DomainError{Kind: KindInvalidTransition, Message: "the order cannot move to that status"}
	ErrPriceChanged       = &DomainError{Kind: KindPriceChanged, Message: "prices changed since the order was prepared"}
	ErrConcurrentUpdate   = &DomainError{Kind: KindConcurrentUpdate, Message: "the order was modified by someone else, reload and retry"}
	ErrCategoryNotEmpty   = &DomainError{Kind: KindCategoryNotEmpty, Message: "the category still has products"}
	ErrForbidden          = &DomainError{Kind: KindForbidden, Message: "you are not allowed to perform this action"}
	ErrNotFound           = &DomainError{Kind: KindNotFound, Message: "resource not found"}
)

func notFound(what string) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: what + " not found"}
}

func invalidInput(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func insufficientStock(available int) *DomainError {
	if available < 0 {
		available = 0
	}
	return &DomainError{
		Kind:      KindInsufficientStock,
		Message:   fmt.Sprintf("only %d units available", available),
		Available: &available,
	}
}

func stockShortage(shortages []Shortage) *DomainError {
	return &DomainError{Kind: KindStockShortage, Message: ErrStockShortage.Message, Shortages: shortages}
}

func priceChanged(total, tax decimal.Decimal) *DomainError {
	return &DomainError{Kind: KindPriceChanged, Message: ErrPriceChanged.Message, Total: &total, Tax: &tax}
}

// mapNotFound turns gorm's not-found into a domain not-found; any other error
// is passed through untouched.
func mapNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what)
	}
	return err
}
