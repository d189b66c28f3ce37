package model

import "github.com/google/uuid"

// Service is a bookable offering of a salon (cut, color, manicure...).
type Service struct {
	Base
	TenantID        uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name            string    `db:"name" json:"name"`
	Description     *string   `db:"description" json:"description,omitempty"`
	PriceCents      int64     `db:"price_cents" json:"price_cents"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Active          bool      `db:"active" json:"active"`
}

type CreateServiceRequest struct {
	Name            string `json:"name" validate:"required,max=120"`
	Description     string `json:"description" validate:"max=2000"`
	PriceCents      int64  `json:"price_cents" validate:"min=0"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=5,max=480"`
}

type UpdateServiceRequest struct {
	Name            *string `json:"name" validate:"omitempty,max=120"`
	Description     *string `json:"description" validate:"omitempty,max=2000"`
	PriceCents      *int64  `json:"price_cents" validate:"omitempty,min=0"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,min=5,max=480"`
	Active          *bool   `json:"active"`
}
