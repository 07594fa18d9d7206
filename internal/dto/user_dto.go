package dto

// SyncUserRequest maps the identity provider's profile onto the internal user.
// The subject itself comes from the verified token, never from the body.
type SyncUserRequest struct {
	Role         string       `json:"role"         validate:"omitempty,oneof=client supplier"`
	Name         string       `json:"name"         validate:"required,min=2,max=120"`
	Email        string       `json:"email"        validate:"omitempty,email"`
	BusinessName *string      `json:"businessName" validate:"omitempty,max=120"`
	Phone        *string      `json:"phone"        validate:"omitempty,max=30"`
	Logo         *ImageRefDTO `json:"logo"`
}

type UserResponse struct {
	ID           string       `json:"id"`
	ExternalID   string       `json:"externalId"`
	Role         string       `json:"role"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	BusinessName *string      `json:"businessName"`
	Phone        *string      `json:"phone"`
	Logo         *ImageRefDTO `json:"logo,omitempty"`
}
