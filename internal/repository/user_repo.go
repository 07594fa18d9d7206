package repository

import (
	"context"

	"bclick/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*model.User, error)
	// Upsert inserts the user or refreshes its profile fields keyed by external_id.
	// The role of an existing user is never changed here.
	Upsert(ctx context.Context, u *model.User) error
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) FindByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Upsert(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "external_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name", "email", "business_name", "phone",
					"logo_public_id", "logo_secure_url", "updated_at",
				}),
			},
			clause.Returning{},
		).
		Create(u).Error
}
