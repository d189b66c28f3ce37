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

const invoiceColumns = `
	id, tenant_id, amount_cents, month, year, status, due_date, paid_at,
	payment_link, gateway_ref, sent_by_whatsapp, sent_by_email, delivered_at,
	created_at, updated_at`

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	query := `
		INSERT INTO invoices (
			id, tenant_id, amount_cents, month, year, status, due_date,
			payment_link, gateway_ref, sent_by_whatsapp, sent_by_email,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	invoice.ID = uuid.New()
	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		invoice.ID,
		invoice.TenantID,
		invoice.AmountCents,
		invoice.Month,
		invoice.Year,
		invoice.Status,
		invoice.DueDate,
		invoice.PaymentLink,
		invoice.GatewayRef,
		invoice.SentByWhatsApp,
		invoice.SentByEmail,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	query := `SELECT` + invoiceColumns + ` FROM invoices WHERE id = $1`

	var invoice model.Invoice
	if err := r.db.GetContext(ctx, &invoice, query, id); err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetByPeriod(ctx context.Context, tenantID uuid.UUID, month, year int) (*model.Invoice, error) {
	query := `SELECT` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND month = $2 AND year = $3`

	var invoice model.Invoice
	err := r.db.GetContext(ctx, &invoice, query, tenantID, month, year)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice by period: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	query := `
		UPDATE invoices
		SET status = $1, due_date = $2, paid_at = $3, payment_link = $4,
			gateway_ref = $5, sent_by_whatsapp = $6, sent_by_email = $7,
			delivered_at = $8, updated_at = $9
		WHERE id = $10
	`
	invoice.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		invoice.Status,
		invoice.DueDate,
		invoice.PaidAt,
		invoice.PaymentLink,
		invoice.GatewayRef,
		invoice.SentByWhatsApp,
		invoice.SentByEmail,
		invoice.DeliveredAt,
		invoice.UpdatedAt,
		invoice.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("invoice not found")
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, error) {
	query := `SELECT` + invoiceColumns + ` FROM invoices WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters.TenantID != uuid.Nil {
		query += fmt.Sprintf(" AND tenant_id = $%d", argCount)
		args = append(args, filters.TenantID)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if filters.Year != 0 {
		query += fmt.Sprintf(" AND year = $%d", argCount)
		args = append(args, filters.Year)
		argCount++
	}

	query += " ORDER BY year DESC, month DESC"

	var invoices []*model.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}
