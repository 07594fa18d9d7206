package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the order lifecycle. approved and rejected are terminal.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderApproved   OrderStatus = "approved"
	OrderRejected   OrderStatus = "rejected"
)

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case OrderPending, OrderProcessing, OrderApproved, OrderRejected:
		return st, true
	default:
		return "", false
	}
}

// IsFinal reports whether no further transition, edit or delete is allowed.
func (s OrderStatus) IsFinal() bool {
	return s == OrderApproved || s == OrderRejected
}

// CanTransitionTo is the supplier-driven transition table.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderPending:
		return next == OrderProcessing || next == OrderRejected
	case OrderProcessing:
		return next == OrderApproved || next == OrderRejected
	default:
		return false
	}
}

// Order is an immutable snapshot of a cart at submission time plus its
// lifecycle state. Items never re-read live product data. Version goes up
// on every write after creation; writes compare it so a stale copy of the
// order can never be applied.
type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber int64           `gorm:"uniqueIndex;not null"`
	ClientID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tax         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(5,4);not null"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	Version     int             `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Notes []OrderNote `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is a snapshot line. Name, BarCode and Price are copied at submission.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Name      string          `gorm:"not null"`
	BarCode   string
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// OrderNote is append-only.
type OrderNote struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	Message    string       `gorm:"not null"`
	UserID     uuid.UUID    `gorm:"type:uuid;not null"`
	StatusFrom *OrderStatus `gorm:"type:varchar(20)"`
	StatusTo   *OrderStatus `gorm:"type:varchar(20)"`
	CreatedAt  time.Time
}

// Recalculate derives line totals, order total and tax from the item snapshot.
func (o *Order) Recalculate(rate decimal.Decimal) {
	total := decimal.Zero
	for i := range o.Items {
		it := &o.Items[i]
		it.Total = it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(it.Total)
	}
	o.Total = total
	o.TaxRate = rate
	o.Tax = total.Mul(rate).Round(2)
}

// HasParticipant reports whether userID is the order's client or supplier.
func (o *Order) HasParticipant(userID uuid.UUID) bool {
	return o.ClientID == userID || o.SupplierID == userID
}
