package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/model"
)

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	query := `
		INSERT INTO clients (id, tenant_id, name, email, phone, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	client.ID = uuid.New()
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.TenantID,
		client.Name,
		client.Email,
		client.Phone,
		client.Notes,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	query := `
		SELECT id, tenant_id, name, email, phone, notes, created_at, updated_at
		FROM clients
		WHERE id = $1
	`
	var client model.Client
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *model.Client) error {
	query := `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, notes = $4, updated_at = $5
		WHERE id = $6
	`
	client.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.Email,
		client.Phone,
		client.Notes,
		client.UpdatedAt,
		client.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("client not found")
	}
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("client not found")
	}
	return nil
}

func (r *clientRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*model.Client, error) {
	query := `
		SELECT id, tenant_id, name, email, phone, notes, created_at, updated_at
		FROM clients
		WHERE tenant_id = $1
		ORDER BY name ASC
	`
	var clients []*model.Client
	if err := r.db.SelectContext(ctx, &clients, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}
