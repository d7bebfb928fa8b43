package supabase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/boddenberg/rentease-api-go/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Rentals: RentalStore via PostgREST with an embedded property
// ============================================================

const rentalSelect = "*,property:properties!inner(id,title,address,city,state,images,price)"

func (c *Client) ListRentalsByUser(ctx context.Context, userID string) ([]domain.RentalWithProperty, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListRentalsByUser")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	path := fmt.Sprintf("rentals?select=%s&user_id=eq.%s&order=created_at.desc",
		rentalSelect, url.QueryEscape(userID))

	var rows []domain.RentalWithProperty
	if err := c.read(ctx, "rentals", path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) CreateRental(ctx context.Context, userID string, req *domain.CreateRentalRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateRental")
	defer span.End()

	id := uuid.NewString()
	row := map[string]any{
		"id":           id,
		"user_id":      userID,
		"property_id":  string(req.PropertyID),
		"start_date":   req.StartDate,
		"end_date":     req.EndDate,
		"status":       domain.RentalStatusPending,
		"total_amount": req.TotalAmount,
		"notes":        req.Notes,
	}

	err := c.write(ctx, "rentals", func(ctx context.Context) error {
		_, err := c.doPost(ctx, "rentals", row, "")
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateRentalStatus filters on both id and owner so a foreign rental is
// simply not matched.
func (c *Client) UpdateRentalStatus(ctx context.Context, id, userID string, status domain.RentalStatus) (int64, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateRentalStatus")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return 0, nil
	}

	path := fmt.Sprintf("rentals?id=eq.%s&user_id=eq.%s", url.QueryEscape(id), url.QueryEscape(userID))

	var n int64
	err := c.write(ctx, "rentals", func(ctx context.Context) error {
		body, err := c.doPatch(ctx, path, map[string]any{"status": status})
		if err != nil {
			return err
		}
		n, err = countRows(body)
		return err
	})
	return n, err
}
