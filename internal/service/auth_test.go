package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/rentease-api-go/internal/domain"
	"github.com/boddenberg/rentease-api-go/internal/infra/memory"
	"github.com/boddenberg/rentease-api-go/internal/infra/observability"
	"github.com/boddenberg/rentease-api-go/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newAuth(ttl time.Duration) (*service.AuthService, *service.LocalIdentity, *memory.Store) {
	store := memory.New()
	local := service.NewLocalIdentity(store, testSecret, ttl, zap.NewNop())
	return service.NewAuthService(local, observability.NewMetrics(), zap.NewNop()), local, store
}

func TestAuth_SignUpSignInCurrentUser(t *testing.T) {
	auth, _, _ := newAuth(time.Hour)
	ctx := context.Background()

	up, err := auth.SignUp(ctx, &domain.SignUpRequest{Email: " Jane@Example.com ", Password: "secret1", FullName: "Jane Doe"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if up.Token == "" || up.User.Email != "jane@example.com" {
		t.Fatalf("unexpected signup response %+v", up)
	}
	if up.User.FullName == nil || *up.User.FullName != "Jane Doe" {
		t.Errorf("expected full name, got %v", up.User.FullName)
	}

	in, err := auth.SignIn(ctx, &domain.SignInRequest{Email: "jane@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("signin: %v", err)
	}

	me, err := auth.CurrentUser(ctx, in.Token)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if me.ID != up.User.ID {
		t.Errorf("expected %s, got %s", up.User.ID, me.ID)
	}
	if err := auth.SignOut(ctx, in.Token); err != nil {
		t.Errorf("signout: %v", err)
	}
}

func TestAuth_SignUpDuplicate(t *testing.T) {
	auth, _, _ := newAuth(time.Hour)
	ctx := context.Background()
	req := &domain.SignUpRequest{Email: "dup@example.com", Password: "secret1"}

	if _, err := auth.SignUp(ctx, req); err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, err := auth.SignUp(ctx, req)
	var exists *domain.ErrAlreadyExists
	if !errors.As(err, &exists) || exists.Error() != "User already exists" {
		t.Fatalf("expected 'User already exists', got %v", err)
	}
}

func TestAuth_SignUpValidation(t *testing.T) {
	auth, _, _ := newAuth(time.Hour)

	for _, req := range []domain.SignUpRequest{
		{Email: "", Password: "secret1"},
		{Email: "a@b.com", Password: ""},
		{Email: "a@b.com", Password: "123"},
	} {
		_, err := auth.SignUp(context.Background(), &req)
		var ve *domain.ErrValidation
		if !errors.As(err, &ve) {
			t.Errorf("req %+v: expected validation error, got %v", req, err)
		}
	}
}

func TestAuth_SignInWrongPassword(t *testing.T) {
	auth, _, _ := newAuth(time.Hour)
	ctx := context.Background()
	if _, err := auth.SignUp(ctx, &domain.SignUpRequest{Email: "a@b.com", Password: "secret1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	for _, req := range []domain.SignInRequest{
		{Email: "a@b.com", Password: "wrong-pass"},
		{Email: "nobody@b.com", Password: "secret1"},
	} {
		_, err := auth.SignIn(ctx, &req)
		var ue *domain.ErrUnauthorized
		if !errors.As(err, &ue) || ue.Error() != "Invalid email or password" {
			t.Errorf("req %+v: expected 'Invalid email or password', got %v", req, err)
		}
	}
}

func TestAuth_ExpiredAndForeignTokens(t *testing.T) {
	auth, _, _ := newAuth(-time.Minute)
	ctx := context.Background()

	up, err := auth.SignUp(ctx, &domain.SignUpRequest{Email: "old@b.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	var ue *domain.ErrUnauthorized
	if _, err := auth.CurrentUser(ctx, up.Token); !errors.As(err, &ue) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   up.User.ID,
		Issuer:    "rentease-api",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, _ := forged.SignedString([]byte("another-secret"))
	if _, err := auth.CurrentUser(ctx, signed); !errors.As(err, &ue) {
		t.Fatalf("expected foreign signature to be rejected, got %v", err)
	}

	if _, err := auth.CurrentUser(ctx, ""); !errors.As(err, &ue) {
		t.Fatalf("expected missing token to be rejected, got %v", err)
	}
}

func TestLocalIdentity_ValidateToken(t *testing.T) {
	_, local, _ := newAuth(time.Hour)

	resp, err := local.SignUp(context.Background(), "v@b.com", "secret1", "")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if resp.User.FullName != nil {
		t.Errorf("blank full name should be stored as null")
	}
	claims, err := local.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != resp.User.ID || claims.Email != "v@b.com" {
		t.Errorf("unexpected claims %+v", claims)
	}
}
