package service

import (
	"context"
	"errors"
	"strings"

	"bclick/internal/dto"
	"bclick/internal/model"
	"bclick/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrUnknownUser is returned by Resolve when the subject was never synced.
var ErrUnknownUser = errors.New("user not registered")

type UserService interface {
	// Resolve maps an identity provider subject to the internal user.
	Resolve(ctx context.Context, subject string) (*model.User, error)
	// Sync creates or refreshes the internal user for subject. tokenRole is
	// the role claim of the verified token, empty when absent.
	Sync(ctx context.Context, subject, tokenRole string, req dto.SyncUserRequest) (*dto.UserResponse, error)
	Me(ctx context.Context, actor Actor) (*dto.UserResponse, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *UserCache
}

func NewUserService(repo repository.UserRepository, cache *UserCache) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) Resolve(ctx context.Context, subject string) (*model.User, error) {
	if u, ok := s.cache.Get(ctx, subject); ok {
		return u, nil
	}
	u, err := s.repo.FindByExternalID(ctx, subject)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}
	s.cache.Put(ctx, u)
	return u, nil
}

// Sync never changes the role of an existing user. New users take the
// token's role claim, then the requested role, then client. Admin can only
// come from the token.
func (s *userService) Sync(ctx context.Context, subject, tokenRole string, req dto.SyncUserRequest) (*dto.UserResponse, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, ErrForbidden
	}

	role := model.RoleClient
	if r, err := model.ParseRole(tokenRole); err == nil {
		role = r
	} else if req.Role != "" {
		r, err := model.ParseRole(req.Role)
		if err != nil || r == model.RoleAdmin {
			return nil, ErrForbidden
		}
		role = r
	}

	u := &model.User{
		ExternalID:   subject,
		Role:         role,
		Name:         req.Name,
		Email:        req.Email,
		BusinessName: req.BusinessName,
		Phone:        req.Phone,
		Active:       true,
	}
	if req.Logo != nil {
		u.Logo = model.ImageRef{PublicID: req.Logo.PublicID, SecureURL: req.Logo.SecureURL}
	}
	if err := s.repo.Upsert(ctx, u); err != nil {
		return nil, err
	}
	s.cache.Forget(ctx, subject)
	return toUserResponse(u), nil
}

func (s *userService) Me(ctx context.Context, actor Actor) (*dto.UserResponse, error) {
	u, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, mapNotFound(err, "user")
	}
	return toUserResponse(u), nil
}

func toUserResponse(u *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:           u.ID.String(),
		ExternalID:   u.ExternalID,
		Role:         string(u.Role),
		Name:         u.Name,
		Email:        u.Email,
		BusinessName: u.BusinessName,
		Phone:        u.Phone,
	}
	if u.Logo.PublicID != "" {
		resp.Logo = &dto.ImageRefDTO{PublicID: u.Logo.PublicID, SecureURL: u.Logo.SecureURL}
	}
	return resp
}

// requireSupplier allows only the supplier identified by ownerID.
func requireSupplier(actor Actor, ownerID uuid.UUID) error {
	switch actor.Role {
	case model.RoleSupplier:
		if actor.ID == ownerID {
			return nil
		}
	case model.RoleClient, model.RoleAdmin:
	}
	return ErrForbidden
}
