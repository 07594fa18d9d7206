package dto

type CreateCategoryRequest struct {
	Name   string `json:"name"   validate:"required,min=2,max=60"`
	Status string `json:"status" validate:"omitempty,oneof=shown hidden"`
}

type UpdateCategoryRequest struct {
	Name   *string `json:"name"   validate:"omitempty,min=2,max=60"`
	Status *string `json:"status" validate:"omitempty,oneof=shown hidden"`
}

type CategoryResponse struct {
	ID         string `json:"id"`
	SupplierID string `json:"supplierId"`
	Name       string `json:"name"`
	Status     string `json:"status"`
}
