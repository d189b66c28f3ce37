package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/repository"
	"github.com/salonsuite/salon-api/pkg/apperr"
)

// Service exposes a tenant's invoice history and payment status updates
// reported back by the payment gateway.
type Service struct {
	invoices repository.InvoiceRepository
	logger   zerolog.Logger
}

func NewService(invoices repository.InvoiceRepository, logger zerolog.Logger) *Service {
	return &Service{
		invoices: invoices,
		logger:   logger.With().Str("component", "billing_service").Logger(),
	}
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Invoice, error) {
	inv, err := s.invoices.Get(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("invoice", err)
	}
	if inv.TenantID != tenantID {
		return nil, apperr.NotFound("invoice not found", nil)
	}
	return inv, nil
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filters *model.InvoiceFilters) ([]*model.Invoice, error) {
	if filters == nil {
		filters = &model.InvoiceFilters{}
	}
	filters.TenantID = tenantID
	return s.invoices.List(ctx, filters)
}

// RecordPayment applies a gateway-reported status transition. Open invoices
// may move to any state; an approved invoice may only move to refunded.
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, status model.InvoiceStatus, paidAt *time.Time) error {
	inv, err := s.invoices.Get(ctx, id)
	if err != nil {
		return apperr.NotFound("invoice", err)
	}

	switch inv.Status {
	case model.InvoiceStatusPending, model.InvoiceStatusProcessing:
		// open, any transition allowed
	case model.InvoiceStatusApproved:
		if status != model.InvoiceStatusRefunded {
			return apperr.Conflict("invoice is already settled", nil)
		}
	default:
		return apperr.Conflict("invoice is closed", nil)
	}

	inv.Status = status
	if status == model.InvoiceStatusApproved {
		inv.PaidAt = paidAt
	}

	if err := s.invoices.Update(ctx, inv); err != nil {
		return apperr.Internal(err)
	}

	s.logger.Info().
		Str("invoice_id", id.String()).
		Str("status", string(status)).
		Msg("invoice payment status recorded")
	return nil
}
