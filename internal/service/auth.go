package service

import (
	"context"
	"strings"

	"github.com/boddenberg/rentease-api-go/internal/domain"
	"github.com/boddenberg/rentease-api-go/internal/infra/observability"
	"github.com/boddenberg/rentease-api-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var authTracer = otel.Tracer("service/auth")

const minPasswordLength = 6

// AuthService validates credentials input and delegates session handling to
// an identity provider (local JWT or Supabase GoTrue).
type AuthService struct {
	provider port.IdentityProvider
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(provider port.IdentityProvider, metrics *observability.Metrics, logger *zap.Logger) *AuthService {
	return &AuthService{provider: provider, metrics: metrics, logger: logger}
}

// ============================================================
// SignUp: POST /api/auth/signup
// ============================================================

// SignUp registers an account and returns its session.
func (s *AuthService) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.AuthResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.SignUp")
	defer span.End()

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, &domain.ErrValidation{Message: "Email and password are required"}
	}
	if len(req.Password) < minPasswordLength {
		return nil, &domain.ErrValidation{Field: "password", Message: "Password must be at least 6 characters"}
	}

	resp, err := s.provider.SignUp(ctx, email, req.Password, strings.TrimSpace(req.FullName))
	if err != nil {
		return nil, err
	}
	s.metrics.IncrEvent(observability.EventUserSignedUp)

	s.logger.Info("user signed up", zap.String("user_id", resp.User.ID))
	return resp, nil
}

// ============================================================
// SignIn: POST /api/auth/signin
// ============================================================

// SignIn exchanges credentials for a session.
func (s *AuthService) SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.AuthResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.SignIn")
	defer span.End()

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, &domain.ErrValidation{Message: "Email and password are required"}
	}

	resp, err := s.provider.SignIn(ctx, email, req.Password)
	if err != nil {
		s.logger.Warn("sign in rejected", zap.Error(err))
		return nil, err
	}

	s.logger.Info("user signed in", zap.String("user_id", resp.User.ID))
	return resp, nil
}

// CurrentUser resolves a bearer token to its user.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.CurrentUser")
	defer span.End()

	if token == "" {
		return nil, &domain.ErrUnauthorized{Message: "Access token required"}
	}
	return s.provider.ResolveToken(ctx, token)
}

// SignOut ends the session behind token where the provider keeps one.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	ctx, span := authTracer.Start(ctx, "AuthService.SignOut")
	defer span.End()

	return s.provider.SignOut(ctx, token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
