package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boddenberg/rentease-api-go/internal/domain"
	"github.com/boddenberg/rentease-api-go/internal/port"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

var errInvalidCredentials = &domain.ErrUnauthorized{Message: "Invalid email or password"}

// LocalIdentity authenticates against accounts kept in the application's
// own store and issues stateless HS256 tokens.
type LocalIdentity struct {
	users     port.UserStore
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewLocalIdentity creates the store-backed identity provider.
func NewLocalIdentity(users port.UserStore, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *LocalIdentity {
	return &LocalIdentity{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

func (l *LocalIdentity) SignUp(ctx context.Context, email, password, fullName string) (*domain.AuthResponse, error) {
	existing, err := l.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, &domain.ErrAlreadyExists{Message: "User already exists"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var name *string
	if fullName != "" {
		name = &fullName
	}
	user, err := l.users.CreateUser(ctx, email, string(hash), name)
	if err != nil {
		var exists *domain.ErrAlreadyExists
		if errors.As(err, &exists) {
			return nil, &domain.ErrAlreadyExists{Message: "User already exists"}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := l.signToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &domain.AuthResponse{Token: token, User: *user}, nil
}

func (l *LocalIdentity) SignIn(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	rec, err := l.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if rec == nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		l.logger.Warn("sign in: password mismatch", zap.String("user_id", rec.ID))
		return nil, errInvalidCredentials
	}

	token, err := l.signToken(&rec.User)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &domain.AuthResponse{Token: token, User: rec.User}, nil
}

// ResolveToken validates the token and reloads the user so deleted accounts
// stop resolving.
func (l *LocalIdentity) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := l.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	rec, err := l.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if rec == nil {
		return nil, &domain.ErrUnauthorized{Message: "Invalid or expired token"}
	}
	return &rec.User, nil
}

// SignOut is a no-op: local tokens are stateless and expire on their own.
func (l *LocalIdentity) SignOut(context.Context, string) error {
	return nil
}
