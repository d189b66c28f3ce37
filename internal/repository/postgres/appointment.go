package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/salonsuite/salon-api/internal/model"
)

const appointmentJoinColumns = `
	a.id, a.tenant_id, a.client_id, a.service_id, a.scheduled_at, a.status,
	a.notes, a.notified, a.notified_at, a.finalized_at, a.cancelled_at,
	a.cancel_reason, a.created_at, a.updated_at,
	c.name AS client_name, c.phone AS client_phone, c.email AS client_email,
	s.name AS service_name`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, tenant_id, client_id, service_id, scheduled_at,
			status, notes, notified, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.TenantID,
		appointment.ClientID,
		appointment.ServiceID,
		appointment.ScheduledAt,
		appointment.Status,
		appointment.Notes,
		appointment.Notified,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, tenant_id, client_id, service_id, scheduled_at, status,
			   notes, notified, notified_at, finalized_at, cancelled_at,
			   cancel_reason, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET scheduled_at = $1, status = $2, notes = $3, notified = $4,
			notified_at = $5, finalized_at = $6, cancelled_at = $7,
			cancel_reason = $8, updated_at = $9
		WHERE id = $10
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.ScheduledAt,
		appointment.Status,
		appointment.Notes,
		appointment.Notified,
		appointment.NotifiedAt,
		appointment.FinalizedAt,
		appointment.CancelledAt,
		appointment.CancelReason,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment not found")
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment not found")
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, tenant_id, client_id, service_id, scheduled_at, status,
			   notes, notified, notified_at, finalized_at, cancelled_at,
			   cancel_reason, created_at, updated_at
		FROM appointments
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters.TenantID != uuid.Nil {
		query += fmt.Sprintf(" AND tenant_id = $%d", argCount)
		args = append(args, filters.TenantID)
		argCount++
	}
	if filters.ClientID != uuid.Nil {
		query += fmt.Sprintf(" AND client_id = $%d", argCount)
		args = append(args, filters.ClientID)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND scheduled_at >= $%d", argCount)
		args = append(args, filters.StartDate)
		argCount++
	}
	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND scheduled_at < $%d", argCount)
		args = append(args, filters.EndDate)
		argCount++
	}

	query += " ORDER BY scheduled_at ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) FindDueForReminder(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT` + appointmentJoinColumns + `
		FROM appointments a
		LEFT JOIN clients c ON c.id = a.client_id
		LEFT JOIN services s ON s.id = a.service_id
		WHERE a.status = $1
		AND NOT a.notified
		AND a.scheduled_at BETWEEN $2 AND $3
		ORDER BY a.scheduled_at ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, model.AppointmentStatusPending, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to find appointments due for reminder: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) FindBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT` + appointmentJoinColumns + `
		FROM appointments a
		LEFT JOIN clients c ON c.id = a.client_id
		LEFT JOIN services s ON s.id = a.service_id
		WHERE a.scheduled_at >= $1 AND a.scheduled_at < $2
		ORDER BY a.scheduled_at ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to find appointments between: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) MarkNotified(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	query := `
		UPDATE appointments
		SET notified = TRUE, notified_at = $1, updated_at = $1
		WHERE id = ANY($2)
	`
	if _, err := r.db.ExecContext(ctx, query, at, pq.Array(raw)); err != nil {
		return fmt.Errorf("failed to mark appointments notified: %w", err)
	}
	return nil
}
