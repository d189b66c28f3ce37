package tenant

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/repository"
	"github.com/salonsuite/salon-api/pkg/apperr"
)

// Subdomains the platform keeps for itself; no tenant may register them.
var reservedSubdomains = map[string]bool{
	"default": true,
	"www":     true,
	"api":     true,
	"admin":   true,
	"app":     true,
}

type Service struct {
	tenants repository.TenantRepository
	logger  zerolog.Logger

	now func() time.Time
}

func NewService(tenants repository.TenantRepository, logger zerolog.Logger) *Service {
	return &Service{
		tenants: tenants,
		logger:  logger.With().Str("component", "tenant_service").Logger(),
		now:     time.Now,
	}
}

// Create provisions a new tenant on its subdomain. New tenants start on the
// trial status with onboarding pending.
func (s *Service) Create(ctx context.Context, req *model.CreateTenantRequest) (*model.Tenant, error) {
	subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain))
	if reservedSubdomains[subdomain] {
		return nil, apperr.Conflict("subdomain is reserved", nil)
	}

	existing, err := s.tenants.GetBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, apperr.Conflict("subdomain is already taken", nil)
	}

	plan := req.Plan
	if plan == "" {
		plan = model.PlanFree
	}

	tenant := &model.Tenant{
		BusinessName: req.BusinessName,
		Subdomain:    subdomain,
		AdminEmail:   strings.ToLower(req.AdminEmail),
		Plan:         plan,
		Status:       model.TenantStatusTrial,
		Active:       true,
		BillByEmail:  true,
	}
	if req.AdminName != "" {
		tenant.AdminName = &req.AdminName
	}
	if req.AdminPhone != "" {
		tenant.AdminPhone = &req.AdminPhone
	}

	if err := s.tenants.Create(ctx, tenant); err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger.Info().Str("tenant_id", tenant.ID.String()).Str("subdomain", subdomain).Msg("tenant created")
	return tenant, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	tenant, err := s.tenants.Get(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("tenant", err)
	}
	return tenant, nil
}

// List returns all tenants, or only the active ones in the given status.
func (s *Service) List(ctx context.Context, status model.TenantStatus) ([]*model.Tenant, error) {
	if status == "" {
		return s.tenants.List(ctx)
	}
	return s.tenants.ListActiveByStatus(ctx, status)
}

// Update applies the partial update. Registering a custom domain requires a
// plan that allows one.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateTenantRequest) (*model.Tenant, error) {
	tenant, err := s.tenants.Get(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("tenant", err)
	}

	if req.CustomDomain != nil && *req.CustomDomain != "" {
		if !tenant.Plan.AllowsCustomDomain() {
			return nil, apperr.Forbidden("plan does not allow a custom domain", nil)
		}
		domain := strings.ToLower(strings.TrimSpace(*req.CustomDomain))
		if other, err := s.tenants.GetByCustomDomain(ctx, domain); err != nil {
			return nil, apperr.Internal(err)
		} else if other != nil && other.ID != tenant.ID {
			return nil, apperr.Conflict("custom domain is already taken", nil)
		}
		tenant.CustomDomain = &domain
	}

	if req.BusinessName != nil {
		tenant.BusinessName = *req.BusinessName
	}
	if req.AdminName != nil {
		tenant.AdminName = req.AdminName
	}
	if req.AdminEmail != nil {
		email := strings.ToLower(*req.AdminEmail)
		tenant.AdminEmail = email
	}
	if req.AdminPhone != nil {
		tenant.AdminPhone = req.AdminPhone
	}
	if req.BillingDay != nil {
		tenant.BillingDay = req.BillingDay
	}
	if req.BillByWhatsApp != nil {
		tenant.BillByWhatsApp = *req.BillByWhatsApp
	}
	if req.BillByEmail != nil {
		tenant.BillByEmail = *req.BillByEmail
	}
	if req.PrimaryColor != nil {
		tenant.PrimaryColor = req.PrimaryColor
	}
	if req.SecondaryColor != nil {
		tenant.SecondaryColor = req.SecondaryColor
	}
	if req.LogoURL != nil {
		tenant.LogoURL = req.LogoURL
	}

	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, apperr.Internal(err)
	}
	return tenant, nil
}

// Activate moves the tenant into the active status and clears suspension.
func (s *Service) Activate(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	tenant, err := s.tenants.Get(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("tenant", err)
	}

	tenant.Status = model.TenantStatusActive
	tenant.Active = true
	tenant.SuspendedAt = nil
	tenant.SuspensionReason = nil

	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, apperr.Internal(err)
	}
	s.logger.Info().Str("tenant_id", id.String()).Msg("tenant activated")
	return tenant, nil
}

// Suspend blocks the tenant's booking surface, recording when and why.
func (s *Service) Suspend(ctx context.Context, id uuid.UUID, reason string) (*model.Tenant, error) {
	tenant, err := s.tenants.Get(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("tenant", err)
	}

	now := s.now()
	tenant.Status = model.TenantStatusSuspended
	tenant.Active = false
	tenant.SuspendedAt = &now
	if reason != "" {
		tenant.SuspensionReason = &reason
	}

	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, apperr.Internal(err)
	}
	s.logger.Info().Str("tenant_id", id.String()).Str("reason", reason).Msg("tenant suspended")
	return tenant, nil
}

// FinishOnboarding marks the tenant's initial setup done.
func (s *Service) FinishOnboarding(ctx context.Context, id uuid.UUID) error {
	tenant, err := s.tenants.Get(ctx, id)
	if err != nil {
		return apperr.NotFound("tenant", err)
	}
	if tenant.OnboardingDone {
		return nil
	}
	tenant.OnboardingDone = true
	if err := s.tenants.Update(ctx, tenant); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// RegisterUsage counts one appointment against the tenant's monthly plan
// limit, rejecting the booking when the limit is already spent.
func (s *Service) RegisterUsage(ctx context.Context, id uuid.UUID) error {
	tenant, err := s.tenants.Get(ctx, id)
	if err != nil {
		return apperr.NotFound("tenant", err)
	}
	if !tenant.Active {
		return apperr.Forbidden("tenant is not active", nil)
	}
	if !tenant.CanBook() {
		return apperr.Forbidden("monthly appointment limit reached", nil)
	}

	if _, err := s.tenants.IncrementUsage(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
