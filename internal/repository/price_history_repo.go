package repository

import (
	"context"

	"bclick/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PriceHistoryRepository interface {
	CreateTx(tx *gorm.DB, h *model.PriceHistory) error
	ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.PriceHistory, int64, error)
}

type priceHistoryRepo struct{ db *gorm.DB }

func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepository {
	return &priceHistoryRepo{db: db}
}

func (r *priceHistoryRepo) CreateTx(tx *gorm.DB, h *model.PriceHistory) error {
	return tx.Create(h).Error
}

func (r *priceHistoryRepo) ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.PriceHistory, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.PriceHistory{}).Where("product_id = ?", productID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit = clampPage(page, limit)
	var rows []model.PriceHistory
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&rows).Error
	return rows, total, err
}
