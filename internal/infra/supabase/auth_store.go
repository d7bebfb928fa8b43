package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/boddenberg/rentease-api-go/internal/domain"
	"github.com/boddenberg/rentease-api-go/internal/infra/resilience"

	"go.uber.org/zap"
)

// ============================================================
// Identity provider via GoTrue (/auth/v1)
// ============================================================

type gotrueUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		FullName string `json:"full_name"`
	} `json:"user_metadata"`
}

func (u gotrueUser) toDomain() domain.User {
	user := domain.User{ID: u.ID, Email: u.Email}
	if u.UserMetadata.FullName != "" {
		name := u.UserMetadata.FullName
		user.FullName = &name
	}
	return user
}

// gotrueSession is the token grant answer. Signup answers with a bare user
// instead when email confirmation is enabled.
type gotrueSession struct {
	AccessToken string      `json:"access_token"`
	User        *gotrueUser `json:"user"`
	gotrueUser
}

type gotrueError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

func (e gotrueError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.ErrorCode} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (s gotrueSession) toAuthResponse() *domain.AuthResponse {
	u := s.gotrueUser
	if s.User != nil {
		u = *s.User
	}
	return &domain.AuthResponse{Token: s.AccessToken, User: u.toDomain()}
}

func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (*domain.AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "Supabase.SignUp")
	defer span.End()

	payload := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]any{"full_name": fullName},
	}

	var session gotrueSession
	err := c.write(ctx, "auth", func(ctx context.Context) error {
		status, body, err := c.send(ctx, http.MethodPost, c.authURL("signup"), payload, c.apiKey, "")
		if err != nil {
			return err
		}
		if status >= 400 && status < 500 {
			msg := decodeGotrueError(body)
			if strings.Contains(strings.ToLower(msg), "already") {
				return resilience.Permanent(&domain.ErrAlreadyExists{Message: "User already exists"})
			}
			return resilience.Permanent(&domain.ErrValidation{Message: msg})
		}
		if err := c.checkStatus(http.MethodPost, "auth/v1/signup", status, body); err != nil {
			return err
		}
		if err := json.Unmarshal(body, &session); err != nil {
			return resilience.Permanent(fmt.Errorf("decode signup: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := session.toAuthResponse()
	if resp.Token == "" {
		c.logger.Info("supabase: signup pending email confirmation", zap.String("user_id", resp.User.ID))
	}
	return resp, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "Supabase.SignIn")
	defer span.End()

	payload := map[string]any{"email": email, "password": password}

	var session gotrueSession
	err := c.write(ctx, "auth", func(ctx context.Context) error {
		status, body, err := c.send(ctx, http.MethodPost, c.authURL("token?grant_type=password"), payload, c.apiKey, "")
		if err != nil {
			return err
		}
		if status >= 400 && status < 500 {
			return resilience.Permanent(&domain.ErrUnauthorized{Message: "Invalid email or password"})
		}
		if err := c.checkStatus(http.MethodPost, "auth/v1/token", status, body); err != nil {
			return err
		}
		if err := json.Unmarshal(body, &session); err != nil {
			return resilience.Permanent(fmt.Errorf("decode token grant: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session.toAuthResponse(), nil
}

func (c *Client) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ResolveToken")
	defer span.End()

	var u gotrueUser
	err := c.write(ctx, "auth", func(ctx context.Context) error {
		status, body, err := c.send(ctx, http.MethodGet, c.authURL("user"), nil, token, "")
		if err != nil {
			return err
		}
		if status >= 400 && status < 500 {
			return resilience.Permanent(&domain.ErrUnauthorized{Message: "Invalid or expired token"})
		}
		if err := c.checkStatus(http.MethodGet, "auth/v1/user", status, body); err != nil {
			return err
		}
		if err := json.Unmarshal(body, &u); err != nil {
			return resilience.Permanent(fmt.Errorf("decode user: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, &domain.ErrUnauthorized{Message: "Invalid or expired token"}
	}
	user := u.toDomain()
	return &user, nil
}

// SignOut revokes the GoTrue session behind token. An already invalid token
// is not an error.
func (c *Client) SignOut(ctx context.Context, token string) error {
	ctx, span := tracer.Start(ctx, "Supabase.SignOut")
	defer span.End()

	return c.write(ctx, "auth", func(ctx context.Context) error {
		status, body, err := c.send(ctx, http.MethodPost, c.authURL("logout"), nil, token, "")
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusNotFound {
			return nil
		}
		return c.checkStatus(http.MethodPost, "auth/v1/logout", status, body)
	})
}

func decodeGotrueError(body []byte) string {
	var e gotrueError
	if err := json.Unmarshal(body, &e); err == nil {
		if msg := e.text(); msg != "" {
			return msg
		}
	}
	return "Sign up failed"
}
