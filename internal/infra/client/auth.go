package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/boddenberg/rentease-api-go/internal/domain"

	"go.uber.org/zap"
)

// AuthAPI signs users in and out and keeps the session in step.
type AuthAPI struct{ c *Client }

// SignUp creates an account. The returned token, if any, becomes the session.
func (a *AuthAPI) SignUp(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	var resp domain.AuthResponse
	req := domain.SignUpRequest{Email: email, Password: password, FullName: fullName}
	if err := a.c.do(ctx, http.MethodPost, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token != "" {
		if err := a.c.session.SetToken(resp.Token); err != nil {
			return nil, err
		}
	}
	return &resp.User, nil
}

// SignIn authenticates and stores the token in the session.
func (a *AuthAPI) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	var resp domain.AuthResponse
	req := domain.SignInRequest{Email: email, Password: password}
	if err := a.c.do(ctx, http.MethodPost, "/auth/signin", req, &resp); err != nil {
		return nil, err
	}
	if err := a.c.session.SetToken(resp.Token); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// SignOut tells the server, then clears local credentials regardless of the
// server's answer.
func (a *AuthAPI) SignOut(ctx context.Context) error {
	if a.c.session.Token() != "" {
		if err := a.c.do(ctx, http.MethodPost, "/auth/signout", nil, nil); err != nil {
			a.c.logger.Debug("server signout failed", zap.Error(err))
		}
	}
	return a.c.session.Clear()
}

// CurrentUser resolves the session's identity. It returns nil without error
// when there is no session, and clears a token the server rejects.
func (a *AuthAPI) CurrentUser(ctx context.Context) (*domain.User, error) {
	if a.c.session.Token() == "" {
		return nil, nil
	}
	var resp domain.MeResponse
	err := a.c.do(ctx, http.MethodGet, "/auth/me", nil, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) &&
			(apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
			return nil, a.c.session.Clear()
		}
		return nil, err
	}
	return &resp.User, nil
}
