package repository

import (
	"context"

	"bclick/internal/dto"
	"bclick/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	// UpdateFieldsTx writes everything except stock, which only moves through AddStockTx.
	UpdateFieldsTx(tx *gorm.DB, p *model.Product) error

	// AddStockTx applies a signed delta to stock only if the result stays >= 0.
	// ok is false when the guard rejected the update; after is the new stock.
	AddStockTx(tx *gorm.DB, id uuid.UUID, delta int) (after int, ok bool, err error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("bar_code = ? AND status NOT IN ?", barcode, []model.ProductStatus{model.ProductHidden, model.ProductDraft}).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	// hidden and draft products are only visible to their owner
	if filter.OwnerID != "" {
		q = q.Where("(status IN ? OR supplier_id = ?)",
			[]model.ProductStatus{model.ProductActive, model.ProductOutOfStock}, filter.OwnerID)
	} else {
		q = q.Where("status IN ?", []model.ProductStatus{model.ProductActive, model.ProductOutOfStock})
	}
	switch model.ProductStatus(filter.Status) {
	case model.ProductOutOfStock:
		q = q.Where("(stock = 0 OR status = ?) AND status NOT IN ?", model.ProductOutOfStock,
			[]model.ProductStatus{model.ProductHidden, model.ProductDraft})
	case model.ProductActive:
		q = q.Where("stock > 0 AND status = ?", model.ProductActive)
	case model.ProductHidden, model.ProductDraft:
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

func (r *productRepo) UpdateFieldsTx(tx *gorm.DB, p *model.Product) error {
	return tx.Model(p).Select(
		"name", "description", "bar_code", "category_id", "price", "status",
		"image_public_id", "image_secure_url", "updated_at",
	).Updates(p).Error
}

func (r *productRepo) AddStockTx(tx *gorm.DB, id uuid.UUID, delta int) (int, bool, error) {
	var p model.Product
	res := tx.Model(&p).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "stock"}}}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}
	return p.Stock, true, nil
}
