package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusFinalized AppointmentStatus = "finalized"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	Base
	// TenantID is nullable for legacy rows created before tenancy.
	TenantID     *uuid.UUID        `db:"tenant_id" json:"tenant_id,omitempty"`
	ClientID     uuid.UUID         `db:"client_id" json:"client_id"`
	ServiceID    uuid.UUID         `db:"service_id" json:"service_id"`
	ScheduledAt  time.Time         `db:"scheduled_at" json:"scheduled_at"`
	Status       AppointmentStatus `db:"status" json:"status"`
	Notes        *string           `db:"notes" json:"notes,omitempty"`
	Notified     bool              `db:"notified" json:"notified"`
	NotifiedAt   *time.Time        `db:"notified_at" json:"notified_at,omitempty"`
	FinalizedAt  *time.Time        `db:"finalized_at" json:"finalized_at,omitempty"`
	CancelledAt  *time.Time        `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CancelReason *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`

	// Joined columns populated by reminder and digest queries.
	ClientName  *string `db:"client_name" json:"client_name,omitempty"`
	ClientPhone *string `db:"client_phone" json:"client_phone,omitempty"`
	ClientEmail *string `db:"client_email" json:"client_email,omitempty"`
	ServiceName *string `db:"service_name" json:"service_name,omitempty"`
}

type CreateAppointmentRequest struct {
	ClientID    uuid.UUID `json:"client_id" validate:"required"`
	ServiceID   uuid.UUID `json:"service_id" validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Notes       string    `json:"notes" validate:"max=1000"`
}

type UpdateAppointmentRequest struct {
	ScheduledAt  *time.Time         `json:"scheduled_at"`
	Status       *AppointmentStatus `json:"status" validate:"omitempty,oneof=pending finalized cancelled"`
	Notes        *string            `json:"notes"`
	CancelReason *string            `json:"cancel_reason"`
}

type AppointmentFilters struct {
	TenantID  uuid.UUID
	ClientID  uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}
