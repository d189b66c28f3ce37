package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/model"
)

const tenantColumns = `
	id, business_name, subdomain, custom_domain, admin_name, admin_email,
	admin_phone, plan, status, active, onboarding_done, appointments_used,
	billing_day, bill_by_whatsapp, bill_by_email, suspended_at,
	suspension_reason, primary_color, secondary_color, logo_url,
	created_at, updated_at`

func (r *tenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	query := `
		INSERT INTO tenants (
			id, business_name, subdomain, custom_domain, admin_name, admin_email,
			admin_phone, plan, status, active, onboarding_done, appointments_used,
			billing_day, bill_by_whatsapp, bill_by_email,
			primary_color, secondary_color, logo_url, created_at, updated_at
		) VALUES (
			:id, :business_name, :subdomain, :custom_domain, :admin_name, :admin_email,
			:admin_phone, :plan, :status, :active, :onboarding_done, :appointments_used,
			:billing_day, :bill_by_whatsapp, :bill_by_email,
			:primary_color, :secondary_color, :logo_url, :created_at, :updated_at
		)
	`
	tenant.ID = uuid.New()
	tenant.CreatedAt = time.Now()
	tenant.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, tenant); err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

func (r *tenantRepository) Get(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	query := `SELECT` + tenantColumns + ` FROM tenants WHERE id = $1`

	var tenant model.Tenant
	if err := r.db.GetContext(ctx, &tenant, query, id); err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &tenant, nil
}

func (r *tenantRepository) GetBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error) {
	query := `SELECT` + tenantColumns + ` FROM tenants WHERE subdomain = $1`

	var tenant model.Tenant
	err := r.db.GetContext(ctx, &tenant, query, subdomain)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant by subdomain: %w", err)
	}
	return &tenant, nil
}

func (r *tenantRepository) GetByCustomDomain(ctx context.Context, domain string) (*model.Tenant, error) {
	query := `SELECT` + tenantColumns + ` FROM tenants WHERE custom_domain = $1`

	var tenant model.Tenant
	err := r.db.GetContext(ctx, &tenant, query, domain)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant by custom domain: %w", err)
	}
	return &tenant, nil
}

func (r *tenantRepository) Update(ctx context.Context, tenant *model.Tenant) error {
	query := `
		UPDATE tenants SET
			business_name = :business_name,
			custom_domain = :custom_domain,
			admin_name = :admin_name,
			admin_email = :admin_email,
			admin_phone = :admin_phone,
			plan = :plan,
			status = :status,
			active = :active,
			onboarding_done = :onboarding_done,
			appointments_used = :appointments_used,
			billing_day = :billing_day,
			bill_by_whatsapp = :bill_by_whatsapp,
			bill_by_email = :bill_by_email,
			suspended_at = :suspended_at,
			suspension_reason = :suspension_reason,
			primary_color = :primary_color,
			secondary_color = :secondary_color,
			logo_url = :logo_url,
			updated_at = :updated_at
		WHERE id = :id
	`
	tenant.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, tenant)
	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("tenant not found")
	}
	return nil
}

func (r *tenantRepository) List(ctx context.Context) ([]*model.Tenant, error) {
	query := `SELECT` + tenantColumns + ` FROM tenants ORDER BY created_at DESC`

	var tenants []*model.Tenant
	if err := r.db.SelectContext(ctx, &tenants, query); err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

func (r *tenantRepository) ListActiveByStatus(ctx context.Context, status model.TenantStatus) ([]*model.Tenant, error) {
	query := `SELECT` + tenantColumns + ` FROM tenants WHERE status = $1 AND active ORDER BY created_at`

	var tenants []*model.Tenant
	if err := r.db.SelectContext(ctx, &tenants, query, status); err != nil {
		return nil, fmt.Errorf("failed to list tenants by status: %w", err)
	}
	return tenants, nil
}

// IncrementUsage bumps the monthly appointment counter and returns the new
// value. The caller checks the plan limit before booking.
func (r *tenantRepository) IncrementUsage(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		UPDATE tenants
		SET appointments_used = appointments_used + 1, updated_at = $2
		WHERE id = $1
		RETURNING appointments_used
	`
	var used int
	if err := r.db.GetContext(ctx, &used, query, id, time.Now()); err != nil {
		return 0, fmt.Errorf("failed to increment usage counter: %w", err)
	}
	return used, nil
}

func (r *tenantRepository) ResetUsageCounters(ctx context.Context) (int64, error) {
	query := `
		UPDATE tenants
		SET appointments_used = 0, updated_at = $1
		WHERE active AND appointments_used <> 0
	`
	result, err := r.db.ExecContext(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to reset usage counters: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
