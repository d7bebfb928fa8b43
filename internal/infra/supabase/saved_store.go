package supabase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/boddenberg/rentease-api-go/internal/domain"

	"github.com/google/uuid"
)

// ============================================================
// Saved properties: SavedStore via PostgREST
// ============================================================

func (c *Client) ListSaved(ctx context.Context, userID string) ([]domain.SavedProperty, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListSaved")
	defer span.End()

	path := fmt.Sprintf("saved_properties?select=*,property:properties!inner(*)&user_id=eq.%s&order=created_at.desc",
		url.QueryEscape(userID))

	var rows []domain.SavedProperty
	if err := c.read(ctx, "saved_properties", path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) IsSaved(ctx context.Context, userID, propertyID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Supabase.IsSaved")
	defer span.End()

	if _, err := uuid.Parse(propertyID); err != nil {
		return false, nil
	}

	path := fmt.Sprintf("saved_properties?select=id&user_id=eq.%s&property_id=eq.%s&limit=1",
		url.QueryEscape(userID), url.QueryEscape(propertyID))

	var rows []struct {
		ID string `json:"id"`
	}
	if err := c.read(ctx, "saved_properties", path, &rows); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// SaveIfAbsent relies on the unique (user_id, property_id) constraint:
// duplicates are ignored and come back as an empty representation.
func (c *Client) SaveIfAbsent(ctx context.Context, userID, propertyID string) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "Supabase.SaveIfAbsent")
	defer span.End()

	id := uuid.NewString()
	row := map[string]any{
		"id":          id,
		"user_id":     userID,
		"property_id": propertyID,
	}

	var inserted bool
	err := c.write(ctx, "saved_properties", func(ctx context.Context) error {
		body, err := c.doPost(ctx, "saved_properties?on_conflict=user_id,property_id", row, "resolution=ignore-duplicates")
		if err != nil {
			return err
		}
		n, err := countRows(body)
		inserted = n > 0
		return err
	})
	if err != nil {
		return "", false, err
	}
	if !inserted {
		return "", false, nil
	}
	return id, true, nil
}

func (c *Client) DeleteSaved(ctx context.Context, userID, propertyID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteSaved")
	defer span.End()

	if _, err := uuid.Parse(propertyID); err != nil {
		return 0, nil
	}

	path := fmt.Sprintf("saved_properties?user_id=eq.%s&property_id=eq.%s",
		url.QueryEscape(userID), url.QueryEscape(propertyID))

	var n int64
	err := c.write(ctx, "saved_properties", func(ctx context.Context) error {
		body, err := c.doDelete(ctx, path)
		if err != nil {
			return err
		}
		n, err = countRows(body)
		return err
	})
	return n, err
}
