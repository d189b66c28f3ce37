package model

import "github.com/google/uuid"

type Client struct {
	Base
	TenantID uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name     string    `db:"name" json:"name"`
	Email    *string   `db:"email" json:"email,omitempty"`
	Phone    *string   `db:"phone" json:"phone,omitempty"`
	Notes    *string   `db:"notes" json:"notes,omitempty"`
}

type CreateClientRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"max=20"`
	Notes string `json:"notes" validate:"max=2000"`
}

type UpdateClientRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=120"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`
	Notes *string `json:"notes" validate:"omitempty,max=2000"`
}
