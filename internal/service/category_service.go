package service

import (
	"context"
	"errors"
	"strings"

	"bclick/internal/dto"
	"bclick/internal/model"
	"bclick/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CategoryService defines business operations for product categories.
type CategoryService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateCategoryRequest) (dto.CategoryResponse, error)
	List(ctx context.Context, actor Actor, supplierID *uuid.UUID) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type categoryService struct {
	repo     repository.CategoryRepository
	products repository.ProductRepository
}

func NewCategoryService(repo repository.CategoryRepository, products repository.ProductRepository) CategoryService {
	return &categoryService{repo: repo, products: products}
}

// mapCategory converts a model to a DTO response.
func mapCategory(c model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:         c.ID.String(),
		SupplierID: c.SupplierID.String(),
		Name:       c.Name,
		Status:     string(c.Status),
	}
}

var errDuplicateCategory = &DomainError{Kind: KindDuplicate, Message: "a category with that name already exists"}

func (s *categoryService) ensureUniqueName(ctx context.Context, supplierID uuid.UUID, name string, self uuid.UUID) error {
	existing, err := s.repo.FindByName(ctx, supplierID, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != self {
		return errDuplicateCategory
	}
	return nil
}

func (s *categoryService) Create(ctx context.Context, actor Actor, req dto.CreateCategoryRequest) (dto.CategoryResponse, error) {
	if actor.Role != model.RoleSupplier {
		return dto.CategoryResponse{}, ErrForbidden
	}
	name := strings.TrimSpace(req.Name)
	if err := s.ensureUniqueName(ctx, actor.ID, name, uuid.Nil); err != nil {
		return dto.CategoryResponse{}, err
	}

	c := &model.Category{SupplierID: actor.ID, Name: name, Status: model.CategoryShown}
	if req.Status != "" {
		c.Status = model.CategoryStatus(req.Status)
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if isUniqueViolation(err) {
			return dto.CategoryResponse{}, errDuplicateCategory
		}
		return dto.CategoryResponse{}, err
	}
	return mapCategory(*c), nil
}

// List shows hidden categories only to their owner.
func (s *categoryService) List(ctx context.Context, actor Actor, supplierID *uuid.UUID) ([]dto.CategoryResponse, error) {
	includeHidden := false
	switch actor.Role {
	case model.RoleSupplier:
		if supplierID == nil {
			id := actor.ID
			supplierID = &id
		}
		includeHidden = *supplierID == actor.ID
	case model.RoleAdmin:
		includeHidden = true
	case model.RoleClient:
	}

	list, err := s.repo.List(ctx, supplierID, includeHidden)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, mapCategory(c))
	}
	return out, nil
}

func (s *categoryService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.CategoryResponse{}, mapNotFound(err, "category")
	}
	if err := requireSupplier(actor, c.SupplierID); err != nil {
		return dto.CategoryResponse{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := s.ensureUniqueName(ctx, c.SupplierID, name, c.ID); err != nil {
			return dto.CategoryResponse{}, err
		}
		c.Name = name
	}
	if req.Status != nil {
		c.Status = model.CategoryStatus(*req.Status)
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CategoryResponse{}, err
	}
	return mapCategory(*c), nil
}

// Delete refuses while any product still references the category.
func (s *categoryService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapNotFound(err, "category")
	}
	if err := requireSupplier(actor, c.SupplierID); err != nil {
		return err
	}
	n, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrCategoryNotEmpty
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("category_id", id.String()).Msg("category deleted")
	return nil
}
