package auth

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/repository"
	"github.com/salonsuite/salon-api/internal/tenancy"
	"github.com/salonsuite/salon-api/pkg/apperr"
	pkgauth "github.com/salonsuite/salon-api/pkg/auth"
)

// ErrInvalidCredentials is returned for every login failure. The message is
// deliberately uniform so responses do not reveal whether the account
// exists, is inactive, or belongs to another tenant.
var ErrInvalidCredentials = apperr.Unauthorized("invalid credentials", nil)

type Service struct {
	users   repository.UserRepository
	tenants repository.TenantRepository
	jwt     *pkgauth.JWTService
	logger  zerolog.Logger

	now func() time.Time
}

func NewService(users repository.UserRepository, tenants repository.TenantRepository, jwt *pkgauth.JWTService, logger zerolog.Logger) *Service {
	return &Service{
		users:   users,
		tenants: tenants,
		jwt:     jwt,
		logger:  logger.With().Str("component", "auth_service").Logger(),
		now:     time.Now,
	}
}

// Login authenticates an email and password. When the request arrived on a
// tenant domain, tenant-bound users must belong to that tenant; presenting
// valid credentials on another tenant's domain fails. Requests with no
// resolvable host, and users bound to no tenant, skip the cross-check.
func (s *Service) Login(ctx context.Context, identity tenancy.Identity, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil || user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrInvalidCredentials
	}

	if hostTenant, ok := identity.HostTenantID(); ok && user.TenantID != nil && *user.TenantID != hostTenant {
		s.logger.Warn().
			Str("user_id", user.ID.String()).
			Str("host_tenant_id", hostTenant.String()).
			Msg("login rejected on foreign tenant domain")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	var tenant *model.Tenant
	if user.TenantID != nil {
		tenant, err = s.tenants.Get(ctx, *user.TenantID)
		if err != nil {
			s.logger.Warn().Err(err).Str("tenant_id", user.TenantID.String()).Msg("failed to load tenant for login")
		} else if tenant != nil && !tenant.Active {
			return nil, ErrInvalidCredentials
		}
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		// Login still succeeds; the timestamp is informational.
		s.logger.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to record last login")
	}

	resp := &model.LoginResponse{
		Token:       token,
		ExpiresAt:   now.Add(s.jwt.Expiry()),
		UserID:      user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		TenantID:    user.TenantID,
		FirstAccess: user.FirstAccess,
	}
	if tenant != nil {
		resp.TenantName = tenant.BusinessName
		resp.Subdomain = tenant.Subdomain
		resp.OnboardingDone = tenant.OnboardingDone
	}

	return resp, nil
}

// HashPassword derives the stored credential for a new or changed password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return string(hash), nil
}
