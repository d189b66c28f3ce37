package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleTenantAdmin Role = "tenant_admin"
	RoleStaff       Role = "staff"
)

type User struct {
	Base
	// TenantID is nil for platform-level operators.
	TenantID     *uuid.UUID `db:"tenant_id" json:"tenant_id,omitempty"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         Role       `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	FirstAccess  bool       `db:"first_access" json:"first_access"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token          string     `json:"token"`
	ExpiresAt      time.Time  `json:"expires_at"`
	UserID         uuid.UUID  `json:"user_id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           Role       `json:"role"`
	TenantID       *uuid.UUID `json:"tenant_id,omitempty"`
	TenantName     string     `json:"tenant_name,omitempty"`
	Subdomain      string     `json:"subdomain,omitempty"`
	FirstAccess    bool       `json:"first_access"`
	OnboardingDone bool       `json:"onboarding_done"`
}
