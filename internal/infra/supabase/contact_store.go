package supabase

import (
	"context"

	"github.com/boddenberg/rentease-api-go/internal/domain"

	"github.com/google/uuid"
)

func (c *Client) CreateContactMessage(ctx context.Context, req *domain.ContactRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateContactMessage")
	defer span.End()

	id := uuid.NewString()
	row := map[string]any{
		"id":      id,
		"name":    req.Name,
		"email":   req.Email,
		"phone":   nullable(req.Phone),
		"subject": nullable(req.Subject),
		"message": req.Message,
	}

	err := c.write(ctx, "contact_messages", func(ctx context.Context) error {
		_, err := c.doPost(ctx, "contact_messages", row, "")
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
