package repository

import (
	"context"

	"bclick/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderListFilter restricts a listing. ParticipantID limits results to orders
// where that user is the client or the supplier; nil lists everything.
type OrderListFilter struct {
	ParticipantID *uuid.UUID
	SupplierID    *uuid.UUID
	Status        string
	Page          int
	Limit         int
}

type OrderRepository interface {
	NextOrderNumberTx(tx *gorm.DB) (int64, error)
	CreateTx(tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter OrderListFilter) ([]model.Order, int64, error)

	// The writes below compare the version the caller read and bump it. ok is
	// false when the order moved on in the meantime.

	// UpdateStatusTx also requires the order to still be in `from`.
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, version int, from, to model.OrderStatus) (ok bool, err error)
	// UpdateTotalsTx also requires the order to still be pending. Edits call
	// it before touching items or stock.
	UpdateTotalsTx(tx *gorm.DB, id uuid.UUID, version int, total, tax decimal.Decimal) (ok bool, err error)
	// DeletePendingTx removes the order only while it is pending.
	DeletePendingTx(tx *gorm.DB, id uuid.UUID, version int) (ok bool, err error)

	UpdateItemQuantityTx(tx *gorm.DB, itemID uuid.UUID, qty int, total decimal.Decimal) error
	AppendNoteTx(tx *gorm.DB, n *model.OrderNote) error

	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) NextOrderNumberTx(tx *gorm.DB) (int64, error) {
	// PostgreSQL sequence: gap-tolerant, never reused
	var num int64
	err := tx.Raw("SELECT nextval('orders_order_number_seq')").Scan(&num).Error
	return num, err
}

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) withDetails(q *gorm.DB) *gorm.DB {
	return q.Preload("Items").Preload("Notes", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	if err := r.withDetails(r.db.WithContext(ctx)).First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context, filter OrderListFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.ParticipantID != nil {
		q = q.Where("(client_id = ? OR supplier_id = ?)", *filter.ParticipantID, *filter.ParticipantID)
	}
	if filter.SupplierID != nil {
		q = q.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := r.withDetails(q).
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, version int, from, to model.OrderStatus) (bool, error) {
	res := tx.Model(&model.Order{}).
		Where("id = ? AND status = ? AND version = ?", id, from, version).
		Updates(map[string]interface{}{"status": to, "version": gorm.Expr("version + 1")})
	return res.RowsAffected == 1, res.Error
}

func (r *orderRepo) UpdateTotalsTx(tx *gorm.DB, id uuid.UUID, version int, total, tax decimal.Decimal) (bool, error) {
	res := tx.Model(&model.Order{}).
		Where("id = ? AND status = ? AND version = ?", id, model.OrderPending, version).
		Updates(map[string]interface{}{"total": total, "tax": tax, "version": gorm.Expr("version + 1")})
	return res.RowsAffected == 1, res.Error
}

func (r *orderRepo) UpdateItemQuantityTx(tx *gorm.DB, itemID uuid.UUID, qty int, total decimal.Decimal) error {
	return tx.Model(&model.OrderItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{"quantity": qty, "total": total}).Error
}

func (r *orderRepo) AppendNoteTx(tx *gorm.DB, n *model.OrderNote) error {
	return tx.Create(n).Error
}

func (r *orderRepo) DeletePendingTx(tx *gorm.DB, id uuid.UUID, version int) (bool, error) {
	res := tx.Where("id = ? AND status = ? AND version = ?", id, model.OrderPending, version).Delete(&model.Order{})
	if res.Error != nil || res.RowsAffected == 0 {
		return false, res.Error
	}
	if err := tx.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
		return false, err
	}
	if err := tx.Where("order_id = ?", id).Delete(&model.OrderNote{}).Error; err != nil {
		return false, err
	}
	return true, nil
}
