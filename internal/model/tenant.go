package model

import "time"

type TenantStatus string

const (
	TenantStatusPending   TenantStatus = "pending"
	TenantStatusActive    TenantStatus = "active"
	TenantStatusTrial     TenantStatus = "trial"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusCancelled TenantStatus = "cancelled"
	TenantStatusBlocked   TenantStatus = "blocked"
)

type Plan string

const (
	PlanFree       Plan = "free"
	PlanBasic      Plan = "basic"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// UnlimitedAppointments is the sentinel limit for plans without a monthly cap.
const UnlimitedAppointments = -1

// PriceCents returns the monthly subscription price of the plan.
func (p Plan) PriceCents() int64 {
	switch p {
	case PlanBasic:
		return 4990
	case PlanPro:
		return 9990
	case PlanEnterprise:
		return 19990
	default:
		return 0
	}
}

// MonthlyAppointmentLimit returns the plan's appointment cap,
// or UnlimitedAppointments.
func (p Plan) MonthlyAppointmentLimit() int {
	switch p {
	case PlanFree:
		return 50
	case PlanBasic:
		return 200
	case PlanPro:
		return 500
	case PlanEnterprise:
		return UnlimitedAppointments
	default:
		return 50
	}
}

// AllowsCustomDomain reports whether the plan may register a custom domain.
func (p Plan) AllowsCustomDomain() bool {
	return p == PlanPro || p == PlanEnterprise
}

type Tenant struct {
	Base
	BusinessName      string       `db:"business_name" json:"business_name"`
	Subdomain         string       `db:"subdomain" json:"subdomain"`
	CustomDomain      *string      `db:"custom_domain" json:"custom_domain,omitempty"`
	AdminName         *string      `db:"admin_name" json:"admin_name,omitempty"`
	AdminEmail        string       `db:"admin_email" json:"admin_email"`
	AdminPhone        *string      `db:"admin_phone" json:"admin_phone,omitempty"`
	Plan              Plan         `db:"plan" json:"plan"`
	Status            TenantStatus `db:"status" json:"status"`
	Active            bool         `db:"active" json:"active"`
	OnboardingDone    bool         `db:"onboarding_done" json:"onboarding_done"`
	AppointmentsUsed  int          `db:"appointments_used" json:"appointments_used"`
	BillingDay        *int         `db:"billing_day" json:"billing_day,omitempty"`
	BillByWhatsApp    bool         `db:"bill_by_whatsapp" json:"bill_by_whatsapp"`
	BillByEmail       bool         `db:"bill_by_email" json:"bill_by_email"`
	SuspendedAt       *time.Time   `db:"suspended_at" json:"suspended_at,omitempty"`
	SuspensionReason  *string      `db:"suspension_reason" json:"suspension_reason,omitempty"`
	PrimaryColor      *string      `db:"primary_color" json:"primary_color,omitempty"`
	SecondaryColor    *string      `db:"secondary_color" json:"secondary_color,omitempty"`
	LogoURL           *string      `db:"logo_url" json:"logo_url,omitempty"`
}

// CanBook reports whether the tenant may create another appointment
// this month under its plan limit.
func (t *Tenant) CanBook() bool {
	limit := t.Plan.MonthlyAppointmentLimit()
	return limit == UnlimitedAppointments || t.AppointmentsUsed < limit
}

type CreateTenantRequest struct {
	BusinessName string `json:"business_name" validate:"required,max=120"`
	Subdomain    string `json:"subdomain" validate:"required,hostname_rfc1123,max=63"`
	AdminName    string `json:"admin_name" validate:"max=120"`
	AdminEmail   string `json:"admin_email" validate:"required,email"`
	AdminPhone   string `json:"admin_phone" validate:"max=20"`
	Plan         Plan   `json:"plan" validate:"omitempty,oneof=free basic pro enterprise"`
}

type UpdateTenantRequest struct {
	BusinessName   *string `json:"business_name"`
	CustomDomain   *string `json:"custom_domain"`
	AdminName      *string `json:"admin_name"`
	AdminEmail     *string `json:"admin_email" validate:"omitempty,email"`
	AdminPhone     *string `json:"admin_phone"`
	BillingDay     *int    `json:"billing_day" validate:"omitempty,min=1,max=28"`
	BillByWhatsApp *bool   `json:"bill_by_whatsapp"`
	BillByEmail    *bool   `json:"bill_by_email"`
	PrimaryColor   *string `json:"primary_color"`
	SecondaryColor *string `json:"secondary_color"`
	LogoURL        *string `json:"logo_url"`
}
