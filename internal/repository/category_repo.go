package repository

import (
	"context"

	"bclick/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRepository defines CRUD operations for Category.
type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	List(ctx context.Context, supplierID *uuid.UUID, includeHidden bool) ([]model.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	FindByName(ctx context.Context, supplierID uuid.UUID, name string) (*model.Category, error)
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepository) List(ctx context.Context, supplierID *uuid.UUID, includeHidden bool) ([]model.Category, error) {
	var list []model.Category
	q := r.db.WithContext(ctx)
	if supplierID != nil {
		q = q.Where("supplier_id = ?", *supplierID)
	}
	if !includeHidden {
		q = q.Where("status = ?", model.CategoryShown)
	}
	err := q.Order("name asc").Find(&list).Error
	return list, err
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) FindByName(ctx context.Context, supplierID uuid.UUID, name string) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Where("supplier_id = ? AND lower(name) = lower(?)", supplierID, name).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id).Error
}
