package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/model"
)

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) error {
	query := `
		INSERT INTO services (id, tenant_id, name, description, price_cents,
			duration_minutes, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	service.ID = uuid.New()
	service.CreatedAt = time.Now()
	service.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		service.ID,
		service.TenantID,
		service.Name,
		service.Description,
		service.PriceCents,
		service.DurationMinutes,
		service.Active,
		service.CreatedAt,
		service.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *serviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	query := `
		SELECT id, tenant_id, name, description, price_cents, duration_minutes,
			   active, created_at, updated_at
		FROM services
		WHERE id = $1
	`
	var service model.Service
	if err := r.db.GetContext(ctx, &service, query, id); err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &service, nil
}

func (r *serviceRepository) Update(ctx context.Context, service *model.Service) error {
	query := `
		UPDATE services
		SET name = $1, description = $2, price_cents = $3, duration_minutes = $4,
			active = $5, updated_at = $6
		WHERE id = $7
	`
	service.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		service.Name,
		service.Description,
		service.PriceCents,
		service.DurationMinutes,
		service.Active,
		service.UpdatedAt,
		service.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("service not found")
	}
	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("service not found")
	}
	return nil
}

func (r *serviceRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*model.Service, error) {
	query := `
		SELECT id, tenant_id, name, description, price_cents, duration_minutes,
			   active, created_at, updated_at
		FROM services
		WHERE tenant_id = $1
		ORDER BY name ASC
	`
	var services []*model.Service
	if err := r.db.SelectContext(ctx, &services, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
