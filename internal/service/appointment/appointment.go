package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/repository"
	"github.com/salonsuite/salon-api/pkg/apperr"
)

// UsageRegistrar counts a new booking against the tenant's plan limit.
type UsageRegistrar interface {
	RegisterUsage(ctx context.Context, tenantID uuid.UUID) error
}

type Service struct {
	appointments repository.AppointmentRepository
	clients      repository.ClientRepository
	services     repository.ServiceRepository
	usage        UsageRegistrar
	logger       zerolog.Logger

	now func() time.Time
}

func NewService(
	appointments repository.AppointmentRepository,
	clients repository.ClientRepository,
	services repository.ServiceRepository,
	usage UsageRegistrar,
	logger zerolog.Logger,
) *Service {
	return &Service{
		appointments: appointments,
		clients:      clients,
		services:     services,
		usage:        usage,
		logger:       logger.With().Str("component", "appointment_service").Logger(),
		now:          time.Now,
	}
}

// Create books an appointment for the tenant. The booking consumes one unit
// of the tenant's monthly plan allowance; when the allowance is spent the
// booking is rejected before anything is written.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	client, err := s.clients.Get(ctx, req.ClientID)
	if err != nil || client.TenantID != tenantID {
		return nil, apperr.NotFound("client", err)
	}
	svc, err := s.services.Get(ctx, req.ServiceID)
	if err != nil || svc.TenantID != tenantID {
		return nil, apperr.NotFound("service", err)
	}
	if req.ScheduledAt.Before(s.now()) {
		return nil, apperr.BadRequest("cannot book in the past", nil)
	}

	if err := s.usage.RegisterUsage(ctx, tenantID); err != nil {
		return nil, err
	}

	appt := &model.Appointment{
		TenantID:    &tenantID,
		ClientID:    req.ClientID,
		ServiceID:   req.ServiceID,
		ScheduledAt: req.ScheduledAt,
		Status:      model.AppointmentStatusPending,
	}
	if req.Notes != "" {
		appt.Notes = &req.Notes
	}

	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger.Info().
		Str("appointment_id", appt.ID.String()).
		Str("tenant_id", tenantID.String()).
		Time("scheduled_at", appt.ScheduledAt).
		Msg("appointment booked")
	return appt, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("appointment", err)
	}
	if appt.TenantID == nil || *appt.TenantID != tenantID {
		return nil, apperr.NotFound("appointment", nil)
	}
	return appt, nil
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	if filters == nil {
		filters = &model.AppointmentFilters{}
	}
	filters.TenantID = tenantID
	return s.appointments.List(ctx, filters)
}

// Update reschedules or transitions an appointment. Finalized and cancelled
// appointments are terminal.
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appt, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != model.AppointmentStatusPending {
		return nil, apperr.Conflict("appointment is already closed", nil)
	}

	if req.ScheduledAt != nil {
		appt.ScheduledAt = *req.ScheduledAt
		// A moved appointment earns a fresh reminder.
		appt.Notified = false
		appt.NotifiedAt = nil
	}
	if req.Notes != nil {
		appt.Notes = req.Notes
	}
	if req.Status != nil {
		now := s.now()
		switch *req.Status {
		case model.AppointmentStatusFinalized:
			appt.Status = model.AppointmentStatusFinalized
			appt.FinalizedAt = &now
		case model.AppointmentStatusCancelled:
			appt.Status = model.AppointmentStatusCancelled
			appt.CancelledAt = &now
			appt.CancelReason = req.CancelReason
		case model.AppointmentStatusPending:
			// no-op
		default:
			return nil, apperr.BadRequest("unknown appointment status", nil)
		}
	}

	if err := s.appointments.Update(ctx, appt); err != nil {
		return nil, apperr.Internal(err)
	}
	return appt, nil
}

func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.appointments.Delete(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
