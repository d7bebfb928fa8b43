package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/boddenberg/rentease-api-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

const propertyColumns = `id, title, description, address, city, state, zip_code, country,
	latitude, longitude, price, bedrooms, bathrooms, area_sqft, property_type,
	status, amenities, images, featured, created_at, updated_at`

func (s *Store) ListProperties(ctx context.Context, status domain.PropertyStatus) ([]domain.Property, error) {
	ctx, span := tracer.Start(ctx, "MySQL.ListProperties")
	defer span.End()

	const q = `SELECT ` + propertyColumns + `
		FROM properties
		WHERE status = ?
		ORDER BY created_at DESC`

	var props []domain.Property
	if err := s.db.SelectContext(ctx, &props, q, status); err != nil {
		return nil, s.fail("PropertyStore.ListProperties", err)
	}
	return props, nil
}

func (s *Store) ListFeatured(ctx context.Context, limit int) ([]domain.Property, error) {
	ctx, span := tracer.Start(ctx, "MySQL.ListFeatured")
	defer span.End()

	const q = `SELECT ` + propertyColumns + `
		FROM properties
		WHERE featured = 1 AND status = ?
		ORDER BY created_at DESC
		LIMIT ?`

	var props []domain.Property
	if err := s.db.SelectContext(ctx, &props, q, domain.PropertyStatusAvailable, limit); err != nil {
		return nil, s.fail("PropertyStore.ListFeatured", err)
	}
	return props, nil
}

func (s *Store) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	ctx, span := tracer.Start(ctx, "MySQL.GetProperty")
	defer span.End()
	span.SetAttributes(attribute.String("property.id", id))

	const q = `SELECT ` + propertyColumns + ` FROM properties WHERE id = ?`

	var p domain.Property
	if err := s.db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Resource: "Property", ID: id}
		}
		return nil, s.fail("PropertyStore.GetProperty", err)
	}
	return &p, nil
}

func (s *Store) CreateProperty(ctx context.Context, req *domain.CreatePropertyRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "MySQL.CreateProperty")
	defer span.End()

	const q = `INSERT INTO properties
		(title, description, address, city, state, zip_code, country, latitude, longitude,
		 price, bedrooms, bathrooms, area_sqft, property_type, amenities, images, featured)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, q,
		req.Title, req.Description, req.Address, req.City, req.State, req.ZipCode, req.Country,
		req.Latitude, req.Longitude, req.Price, req.Bedrooms, req.Bathrooms, req.AreaSqft,
		req.PropertyType, req.Amenities.OrEmpty(), req.Images.OrEmpty(), req.Featured,
	)
	if err != nil {
		return "", s.fail("PropertyStore.CreateProperty", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", s.fail("PropertyStore.CreateProperty", err)
	}
	return strconv.FormatInt(id, 10), nil
}
