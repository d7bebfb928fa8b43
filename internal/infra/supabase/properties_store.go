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
// Properties: PropertyStore via PostgREST
// ============================================================

func (c *Client) ListProperties(ctx context.Context, status domain.PropertyStatus) ([]domain.Property, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListProperties")
	defer span.End()

	path := fmt.Sprintf("properties?select=*&status=eq.%s&order=created_at.desc", url.QueryEscape(string(status)))

	var rows []domain.Property
	if err := c.read(ctx, "properties", path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) ListFeatured(ctx context.Context, limit int) ([]domain.Property, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListFeatured")
	defer span.End()

	path := fmt.Sprintf("properties?select=*&featured=eq.true&status=eq.%s&order=created_at.desc&limit=%d",
		domain.PropertyStatusAvailable, limit)

	var rows []domain.Property
	if err := c.read(ctx, "properties", path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetProperty")
	defer span.End()
	span.SetAttributes(attribute.String("property.id", id))

	if _, err := uuid.Parse(id); err != nil {
		// PostgREST rejects malformed uuids with 400; no such row can exist.
		return nil, &domain.ErrNotFound{Resource: "Property", ID: id}
	}

	path := fmt.Sprintf("properties?select=*&id=eq.%s&limit=1", url.QueryEscape(id))

	var rows []domain.Property
	if err := c.read(ctx, "properties", path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "Property", ID: id}
	}
	return &rows[0], nil
}

func (c *Client) CreateProperty(ctx context.Context, req *domain.CreatePropertyRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateProperty")
	defer span.End()

	id := uuid.NewString()
	row := map[string]any{
		"id":            id,
		"title":         req.Title,
		"description":   req.Description,
		"address":       req.Address,
		"city":          req.City,
		"state":         req.State,
		"zip_code":      req.ZipCode,
		"country":       req.Country,
		"latitude":      req.Latitude,
		"longitude":     req.Longitude,
		"price":         req.Price,
		"bedrooms":      req.Bedrooms,
		"bathrooms":     req.Bathrooms,
		"area_sqft":     req.AreaSqft,
		"property_type": req.PropertyType,
		"status":        domain.PropertyStatusAvailable,
		"amenities":     req.Amenities.OrEmpty(),
		"images":        req.Images.OrEmpty(),
		"featured":      req.Featured,
	}

	err := c.write(ctx, "properties", func(ctx context.Context) error {
		_, err := c.doPost(ctx, "properties", row, "")
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}
