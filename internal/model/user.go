package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of actor kinds. Callers switch over it exhaustively
// instead of comparing raw strings.
type Role string

const (
	RoleClient   Role = "client"
	RoleSupplier Role = "supplier"
	RoleAdmin    Role = "admin"
)

// ParseRole converts an external string into a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleClient, RoleSupplier, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }

// ImageRef is the pair returned by the image CDN. We never touch image bytes.
type ImageRef struct {
	PublicID  string `gorm:"column:public_id"`
	SecureURL string `gorm:"column:secure_url"`
}

// User is the internal projection of an identity-provider account.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ExternalID   string    `gorm:"uniqueIndex;not null"`
	Role         Role      `gorm:"type:varchar(20);not null"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"index"`
	BusinessName *string
	Phone        *string
	Logo         ImageRef `gorm:"embedded;embeddedPrefix:logo_"`
	Active       bool     `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
