package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"bclick/internal/dto"
	"bclick/internal/model"
	"bclick/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProductService is the supplier catalog plus the stock and price audit trail.
type ProductService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*dto.ProductResponse, error)
	LookupBarcode(ctx context.Context, barcode string) (*dto.BarcodeLookupResponse, error)
	List(ctx context.Context, actor Actor, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	AdjustStock(ctx context.Context, actor Actor, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	StockMovements(ctx context.Context, actor Actor, id uuid.UUID, filter dto.HistoryFilter) (*dto.StockMovementListResponse, error)
	PriceHistory(ctx context.Context, actor Actor, id uuid.UUID, filter dto.HistoryFilter) (*dto.PriceHistoryListResponse, error)
}

type productService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	movements  repository.StockMovementRepository
	prices     repository.PriceHistoryRepository
	cache      *ProductCache
}

func NewProductService(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	movements repository.StockMovementRepository,
	prices repository.PriceHistoryRepository,
	cache *ProductCache,
) ProductService {
	return &productService{repo: repo, categories: categories, movements: movements, prices: prices, cache: cache}
}

// checkCategory verifies the category exists and belongs to the supplier.
func (s *productService) checkCategory(ctx context.Context, supplierID uuid.UUID, raw string) (*uuid.UUID, error) {
	id, err := parseID(raw, "categoryId")
	if err != nil {
		return nil, err
	}
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "category")
	}
	if c.SupplierID != supplierID {
		return nil, invalidInput("category belongs to another supplier")
	}
	return &id, nil
}

func (s *productService) Create(ctx context.Context, actor Actor, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if actor.Role != model.RoleSupplier {
		return nil, ErrForbidden
	}
	if req.Price.IsNegative() {
		return nil, invalidInput("price must not be negative")
	}
	p := &model.Product{
		SupplierID:  actor.ID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		BarCode:     req.BarCode,
		Price:       req.Price.Round(2),
		Stock:       req.Stock,
		Status:      model.ProductActive,
	}
	if req.Status != "" {
		p.Status = model.ProductStatus(req.Status)
	}
	if req.CategoryID != nil {
		id, err := s.checkCategory(ctx, actor.ID, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		p.CategoryID = id
	}
	if req.Image != nil {
		p.Image = model.ImageRef{PublicID: req.Image.PublicID, SecureURL: req.Image.SecureURL}
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// visible hides hidden and draft products from everyone but their owner.
func visible(actor Actor, p *model.Product) bool {
	switch p.Status {
	case model.ProductHidden, model.ProductDraft:
		return actor.Role == model.RoleAdmin || (actor.Role == model.RoleSupplier && actor.ID == p.SupplierID)
	default:
		return true
	}
}

func (s *productService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "product")
	}
	if !visible(actor, p) {
		return nil, notFound("product")
	}
	return toProductResponse(p), nil
}

func (s *productService) LookupBarcode(ctx context.Context, barcode string) (*dto.BarcodeLookupResponse, error) {
	if cached, ok := s.cache.Get(ctx, barcode); ok {
		return cached, nil
	}
	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, mapNotFound(err, "product")
	}
	resp := &dto.BarcodeLookupResponse{
		ProductID:  p.ID.String(),
		SupplierID: p.SupplierID.String(),
		Name:       p.Name,
		Price:      p.Price,
		Stock:      p.Stock,
		Status:     string(p.EffectiveStatus()),
	}
	s.cache.Put(ctx, barcode, resp)
	return resp, nil
}

func (s *productService) List(ctx context.Context, actor Actor, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	switch actor.Role {
	case model.RoleSupplier:
		filter.OwnerID = actor.ID.String()
	case model.RoleClient, model.RoleAdmin:
		filter.OwnerID = ""
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductListResponse{
		Data:       make([]dto.ProductResponse, 0, len(products)),
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}
	for i := range products {
		resp.Data = append(resp.Data, *toProductResponse(&products[i]))
	}
	return resp, nil
}

// Update never touches stock. A price change writes a price_history row in
// the same transaction; existing orders keep their snapshot price.
func (s *productService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "product")
	}
	if err := requireSupplier(actor, p.SupplierID); err != nil {
		return nil, err
	}
	oldBarcode, oldPrice := p.BarCode, p.Price

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.BarCode != nil {
		p.BarCode = *req.BarCode
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			p.CategoryID = nil
		} else {
			cid, err := s.checkCategory(ctx, p.SupplierID, *req.CategoryID)
			if err != nil {
				return nil, err
			}
			p.CategoryID = cid
		}
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, invalidInput("price must not be negative")
		}
		p.Price = req.Price.Round(2)
	}
	if req.Status != nil {
		p.Status = model.ProductStatus(*req.Status)
	}
	if req.Image != nil {
		p.Image = model.ImageRef{PublicID: req.Image.PublicID, SecureURL: req.Image.SecureURL}
	}
	p.UpdatedAt = time.Now()

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateFieldsTx(tx, p); err != nil {
			return err
		}
		if p.Price.Equal(oldPrice) {
			return nil
		}
		return s.prices.CreateTx(tx, &model.PriceHistory{
			ProductID:   p.ID,
			PriceBefore: oldPrice,
			PriceAfter:  p.Price,
			ChangedBy:   actor.ID,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	if !p.Price.Equal(oldPrice) {
		log.Info().
			Str("product_id", p.ID.String()).
			Str("before", oldPrice.StringFixed(2)).
			Str("after", p.Price.StringFixed(2)).
			Msg("product price changed")
	}

	s.cache.Forget(ctx, oldBarcode, p.BarCode)
	return toProductResponse(p), nil
}

// AdjustStock applies a supplier's signed correction. The conditional update
// refuses any delta that would take stock below zero.
func (s *productService) AdjustStock(ctx context.Context, actor Actor, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "product")
	}
	if err := requireSupplier(actor, p.SupplierID); err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		after, ok, err := s.repo.AddStockTx(tx, id, req.Delta)
		if err != nil {
			return err
		}
		if !ok {
			return insufficientStock(p.Stock)
		}
		p.Stock = after
		return s.movements.CreateTx(tx, &model.StockMovement{
			ProductID:   id,
			Kind:        model.MovementManual,
			Quantity:    req.Delta,
			StockBefore: after - req.Delta,
			StockAfter:  after,
			Reason:      req.Reason,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("product_id", id.String()).Int("delta", req.Delta).Int("stock", p.Stock).Msg("stock adjusted")
	s.cache.Forget(ctx, p.BarCode)
	return toProductResponse(p), nil
}

// ownerOrAdmin gates the audit trail.
func (s *productService) ownerOrAdmin(ctx context.Context, actor Actor, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapNotFound(err, "product")
	}
	if actor.Role == model.RoleAdmin {
		return nil
	}
	return requireSupplier(actor, p.SupplierID)
}

func (s *productService) StockMovements(ctx context.Context, actor Actor, id uuid.UUID, filter dto.HistoryFilter) (*dto.StockMovementListResponse, error) {
	if err := s.ownerOrAdmin(ctx, actor, id); err != nil {
		return nil, err
	}
	rows, total, err := s.movements.List(ctx, repository.StockMovementFilter{ProductID: &id, Page: filter.Page, Limit: filter.Limit})
	if err != nil {
		return nil, err
	}
	resp := &dto.StockMovementListResponse{Data: make([]dto.StockMovementResponse, 0, len(rows)), Total: total, Page: filter.Page, Limit: filter.Limit}
	for _, m := range rows {
		item := dto.StockMovementResponse{
			ID:          m.ID.String(),
			ProductID:   m.ProductID.String(),
			Kind:        string(m.Kind),
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Reason:      m.Reason,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		}
		if m.ReferenceID != nil {
			ref := m.ReferenceID.String()
			item.ReferenceID = &ref
		}
		resp.Data = append(resp.Data, item)
	}
	return resp, nil
}

func (s *productService) PriceHistory(ctx context.Context, actor Actor, id uuid.UUID, filter dto.HistoryFilter) (*dto.PriceHistoryListResponse, error) {
	if err := s.ownerOrAdmin(ctx, actor, id); err != nil {
		return nil, err
	}
	rows, total, err := s.prices.ListByProduct(ctx, id, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.PriceHistoryListResponse{Data: make([]dto.PriceHistoryResponse, 0, len(rows)), Total: total, Page: filter.Page, Limit: filter.Limit}
	for _, h := range rows {
		resp.Data = append(resp.Data, dto.PriceHistoryResponse{
			ID:          h.ID.String(),
			ProductID:   h.ProductID.String(),
			PriceBefore: h.PriceBefore,
			PriceAfter:  h.PriceAfter,
			ChangedBy:   h.ChangedBy.String(),
			CreatedAt:   h.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}

func toProductResponse(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:          p.ID.String(),
		SupplierID:  p.SupplierID.String(),
		Name:        p.Name,
		Description: p.Description,
		BarCode:     p.BarCode,
		Price:       p.Price,
		Stock:       p.Stock,
		Status:      string(p.EffectiveStatus()),
	}
	if p.CategoryID != nil {
		cid := p.CategoryID.String()
		resp.CategoryID = &cid
	}
	if p.Image.PublicID != "" {
		resp.Image = &dto.ImageRefDTO{PublicID: p.Image.PublicID, SecureURL: p.Image.SecureURL}
	}
	return resp
}

// isUniqueViolation reports a duplicate-key failure from PostgreSQL.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || (err != nil && strings.Contains(err.Error(), "SQLSTATE 23505"))
}
