package repository

import (
	"context"
	"errors"
	"time"

	"bclick/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository stores one cart per (client, supplier) pair.
type CartRepository interface {
	FindByPair(ctx context.Context, clientID, supplierID uuid.UUID) (*model.Cart, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Cart, error)

	// EnsureTx returns the pair's cart, creating it if absent. Concurrent callers
	// converge on the same row through the unique index.
	EnsureTx(tx *gorm.DB, clientID, supplierID uuid.UUID) (*model.Cart, error)
	// IncrementItemTx adds qty to the line (inserting it at position if new)
	// and returns the resulting line quantity.
	IncrementItemTx(tx *gorm.DB, cartID, productID uuid.UUID, qty, position int) (int, error)
	SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, qty int) error
	// RemoveItemTx deletes the line and returns how many lines remain.
	RemoveItemTx(tx *gorm.DB, cartID, productID uuid.UUID) (int64, error)
	DeleteTx(tx *gorm.DB, cartID uuid.UUID) error
	// DeleteByPairTx is a no-op when no cart exists.
	DeleteByPairTx(tx *gorm.DB, clientID, supplierID uuid.UUID) error
	// ConsumeItemsTx removes the given lines once they became an order. Each
	// line must still hold the quantity that was read, else ok is false.
	// Lines added since stay in the cart; an emptied cart is deleted.
	ConsumeItemsTx(tx *gorm.DB, cartID uuid.UUID, items []model.CartItem) (ok bool, err error)

	DB() *gorm.DB
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepository(db *gorm.DB) CartRepository { return &cartRepo{db: db} }

func (r *cartRepo) DB() *gorm.DB { return r.db }

func (r *cartRepo) preload(q *gorm.DB) *gorm.DB {
	return q.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Preload("Items.Product")
}

func (r *cartRepo) FindByPair(ctx context.Context, clientID, supplierID uuid.UUID) (*model.Cart, error) {
	var c model.Cart
	err := r.preload(r.db.WithContext(ctx)).
		Where("client_id = ? AND supplier_id = ?", clientID, supplierID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cartRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Cart, error) {
	var carts []model.Cart
	err := r.preload(r.db.WithContext(ctx)).
		Where("client_id = ?", clientID).
		Order("updated_at DESC").
		Find(&carts).Error
	return carts, err
}

func (r *cartRepo) EnsureTx(tx *gorm.DB, clientID, supplierID uuid.UUID) (*model.Cart, error) {
	c := model.Cart{ClientID: clientID, SupplierID: supplierID}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_id"}, {Name: "supplier_id"}},
		DoNothing: true,
	}).Create(&c).Error
	if err != nil {
		return nil, err
	}
	var out model.Cart
	err = tx.Where("client_id = ? AND supplier_id = ?", clientID, supplierID).First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *cartRepo) IncrementItemTx(tx *gorm.DB, cartID, productID uuid.UUID, qty, position int) (int, error) {
	item := model.CartItem{CartID: cartID, ProductID: productID, Quantity: qty, Position: position}
	err := tx.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
				"updated_at": time.Now(),
			}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "quantity"}}},
	).Create(&item).Error
	if err != nil {
		return 0, err
	}
	if err := tx.Model(&model.Cart{}).Where("id = ?", cartID).Update("updated_at", time.Now()).Error; err != nil {
		return 0, err
	}
	return item.Quantity, nil
}

func (r *cartRepo) SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", qty).Error
}

func (r *cartRepo) RemoveItemTx(tx *gorm.DB, cartID, productID uuid.UUID) (int64, error) {
	if err := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).Delete(&model.CartItem{}).Error; err != nil {
		return 0, err
	}
	var remaining int64
	err := tx.Model(&model.CartItem{}).Where("cart_id = ?", cartID).Count(&remaining).Error
	return remaining, err
}

func (r *cartRepo) DeleteTx(tx *gorm.DB, cartID uuid.UUID) error {
	if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Cart{}, "id = ?", cartID).Error
}

func (r *cartRepo) DeleteByPairTx(tx *gorm.DB, clientID, supplierID uuid.UUID) error {
	var c model.Cart
	err := tx.Where("client_id = ? AND supplier_id = ?", clientID, supplierID).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return r.DeleteTx(tx, c.ID)
}

func (r *cartRepo) ConsumeItemsTx(tx *gorm.DB, cartID uuid.UUID, items []model.CartItem) (bool, error) {
	// the row lock orders us against AddItem, which touches the cart row too
	var c model.Cart
	err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).Take(&c, "id = ?", cartID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	for _, it := range items {
		res := tx.Where("cart_id = ? AND product_id = ? AND quantity = ?", cartID, it.ProductID, it.Quantity).
			Delete(&model.CartItem{})
		if res.Error != nil {
			return false, res.Error
		}
		if res.RowsAffected == 0 {
			return false, nil
		}
	}

	var remaining int64
	if err := tx.Model(&model.CartItem{}).Where("cart_id = ?", cartID).Count(&remaining).Error; err != nil {
		return false, err
	}
	if remaining == 0 {
		if err := tx.Delete(&model.Cart{}, "id = ?", cartID).Error; err != nil {
			return false, err
		}
	}
	return true, nil
}
