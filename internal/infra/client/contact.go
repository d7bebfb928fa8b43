package client

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/boddenberg/rentease-api-go/internal/domain"
)

type ContactAPI struct{ c *Client }

// Send validates the form and submits it. Validation failures never reach
// the network.
func (a *ContactAPI) Send(ctx context.Context, req *domain.ContactRequest) (string, error) {
	if err := ValidateContact(req); err != nil {
		return "", err
	}
	var resp domain.CreatedResponse
	if err := a.c.do(ctx, http.MethodPost, "/contact", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// ValidateContact applies the contact form rules: name 2-100 characters, a
// valid email of at most 255, subject 2-200, message 10-1000. Only phone may
// be empty.
func ValidateContact(req *domain.ContactRequest) error {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	subject := strings.TrimSpace(req.Subject)
	message := strings.TrimSpace(req.Message)

	if !between(name, 2, 100) {
		return &domain.ErrValidation{Field: "name", Message: "Name must be between 2 and 100 characters"}
	}
	if utf8.RuneCountInString(email) > 255 {
		return &domain.ErrValidation{Field: "email", Message: "Email must be less than 255 characters"}
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return &domain.ErrValidation{Field: "email", Message: "Invalid email address"}
	}
	if utf8.RuneCountInString(subject) < 2 {
		return &domain.ErrValidation{Field: "subject", Message: "Subject is required"}
	}
	if utf8.RuneCountInString(subject) > 200 {
		return &domain.ErrValidation{Field: "subject", Message: "Subject must be less than 200 characters"}
	}
	if !between(message, 10, 1000) {
		return &domain.ErrValidation{Field: "message", Message: "Message must be between 10 and 1000 characters"}
	}
	return nil
}

func between(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}
