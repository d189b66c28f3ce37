package model

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceStatusPending    InvoiceStatus = "pending"
	InvoiceStatusApproved   InvoiceStatus = "approved"
	InvoiceStatusRejected   InvoiceStatus = "rejected"
	InvoiceStatusCancelled  InvoiceStatus = "cancelled"
	InvoiceStatusRefunded   InvoiceStatus = "refunded"
	InvoiceStatusProcessing InvoiceStatus = "in_processing"
)

// Invoice is a monthly subscription charge for a tenant.
// At most one invoice exists per (tenant, month, year).
type Invoice struct {
	Base
	TenantID       uuid.UUID     `db:"tenant_id" json:"tenant_id"`
	AmountCents    int64         `db:"amount_cents" json:"amount_cents"`
	Month          int           `db:"month" json:"month"`
	Year           int           `db:"year" json:"year"`
	Status         InvoiceStatus `db:"status" json:"status"`
	DueDate        time.Time     `db:"due_date" json:"due_date"`
	PaidAt         *time.Time    `db:"paid_at" json:"paid_at,omitempty"`
	PaymentLink    *string       `db:"payment_link" json:"payment_link,omitempty"`
	GatewayRef     *string       `db:"gateway_ref" json:"gateway_ref,omitempty"`
	SentByWhatsApp bool          `db:"sent_by_whatsapp" json:"sent_by_whatsapp"`
	SentByEmail    bool          `db:"sent_by_email" json:"sent_by_email"`
	DeliveredAt    *time.Time    `db:"delivered_at" json:"delivered_at,omitempty"`
}

type InvoiceFilters struct {
	TenantID uuid.UUID
	Status   InvoiceStatus
	Year     int
}
