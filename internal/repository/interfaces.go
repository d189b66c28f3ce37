package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/model"
)

// All repository interfaces in one file
type (
	TenantRepository interface {
		Create(ctx context.Context, tenant *model.Tenant) error
		Get(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
		GetBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error)
		GetByCustomDomain(ctx context.Context, domain string) (*model.Tenant, error)
		Update(ctx context.Context, tenant *model.Tenant) error
		List(ctx context.Context) ([]*model.Tenant, error)
		ListActiveByStatus(ctx context.Context, status model.TenantStatus) ([]*model.Tenant, error)
		IncrementUsage(ctx context.Context, id uuid.UUID) (int, error)
		ResetUsageCounters(ctx context.Context) (int64, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		// FindDueForReminder returns pending, unnotified appointments scheduled
		// inside [from, to], joined with client and service columns, ordered by
		// scheduled time ascending.
		FindDueForReminder(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
		// FindBetween returns all appointments scheduled inside [from, to),
		// joined with client and service columns, ordered by scheduled time.
		FindBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
		// MarkNotified flips the notified flag of the given appointments in a
		// single statement. Never unsets the flag.
		MarkNotified(ctx context.Context, ids []uuid.UUID, at time.Time) error
	}

	InvoiceRepository interface {
		Create(ctx context.Context, invoice *model.Invoice) error
		Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
		// GetByPeriod returns the invoice of the tenant for the given month and
		// year, or (nil, nil) when none exists.
		GetByPeriod(ctx context.Context, tenantID uuid.UUID, month, year int) (*model.Invoice, error)
		Update(ctx context.Context, invoice *model.Invoice) error
		List(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, error)
	}

	ClientRepository interface {
		Create(ctx context.Context, client *model.Client) error
		Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
		Update(ctx context.Context, client *model.Client) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, tenantID uuid.UUID) ([]*model.Client, error)
	}

	ServiceRepository interface {
		Create(ctx context.Context, service *model.Service) error
		Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
		Update(ctx context.Context, service *model.Service) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, tenantID uuid.UUID) ([]*model.Service, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		List(ctx context.Context, tenantID uuid.UUID) ([]*model.User, error)
	}
)
