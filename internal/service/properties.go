// Package service provides the business logic layer (use cases).
// Each service validates input, orchestrates a port and records
// business metrics; persistence details live behind the ports.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/rentease-api-go/internal/domain"
	"github.com/boddenberg/rentease-api-go/internal/infra/observability"
	"github.com/boddenberg/rentease-api-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var propertyTracer = otel.Tracer("service/properties")

// Listing cache keys.
const (
	cacheKeyAvailable = "available"
	cacheKeyFeatured  = "featured"
	listingCacheName  = "listings"
)

// PropertyService serves listings and creates properties.
type PropertyService struct {
	store   port.PropertyStore
	cache   port.Cache[[]domain.Property]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewPropertyService creates a property service. cache may be nil.
func NewPropertyService(store port.PropertyStore, cache port.Cache[[]domain.Property], metrics *observability.Metrics, logger *zap.Logger) *PropertyService {
	return &PropertyService{store: store, cache: cache, metrics: metrics, logger: logger}
}

// List returns available properties, newest first.
func (s *PropertyService) List(ctx context.Context) ([]domain.Property, error) {
	ctx, span := propertyTracer.Start(ctx, "PropertyService.List")
	defer span.End()

	return s.cached(ctx, cacheKeyAvailable, func() ([]domain.Property, error) {
		return s.store.ListProperties(ctx, domain.PropertyStatusAvailable)
	})
}

// Featured returns at most domain.FeaturedLimit featured available properties.
func (s *PropertyService) Featured(ctx context.Context) ([]domain.Property, error) {
	ctx, span := propertyTracer.Start(ctx, "PropertyService.Featured")
	defer span.End()

	return s.cached(ctx, cacheKeyFeatured, func() ([]domain.Property, error) {
		return s.store.ListFeatured(ctx, domain.FeaturedLimit)
	})
}

// Search narrows the available listing with a filter.
func (s *PropertyService) Search(ctx context.Context, f domain.PropertyFilter) ([]domain.Property, error) {
	props, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if f.IsZero() {
		return props, nil
	}
	return domain.FilterProperties(props, f), nil
}

// Get returns one property regardless of status.
func (s *PropertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	ctx, span := propertyTracer.Start(ctx, "PropertyService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("property.id", id))

	p, err := s.store.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Normalize()
	return p, nil
}

// Create applies defaults and persists a new property.
func (s *PropertyService) Create(ctx context.Context, req *domain.CreatePropertyRequest) (string, error) {
	ctx, span := propertyTracer.Start(ctx, "PropertyService.Create")
	defer span.End()

	if req.PropertyType != "" && !req.PropertyType.Valid() {
		return "", &domain.ErrValidation{Field: "property_type", Message: fmt.Sprintf("Invalid property type: %s", req.PropertyType)}
	}
	req.ApplyDefaults()

	start := time.Now()
	id, err := s.store.CreateProperty(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create property: %w", err)
	}
	s.metrics.RecordOperation("property_create", time.Since(start))
	s.metrics.IncrEvent(observability.EventPropertyCreated)

	if s.cache != nil {
		s.cache.Delete(ctx, cacheKeyAvailable)
		s.cache.Delete(ctx, cacheKeyFeatured)
	}

	s.logger.Info("property created",
		zap.String("property_id", id),
		zap.String("city", req.City),
		zap.Float64("price", req.Price),
	)
	return id, nil
}

func (s *PropertyService) cached(ctx context.Context, key string, load func() ([]domain.Property, error)) ([]domain.Property, error) {
	if s.cache != nil {
		if props, ok := s.cache.Get(ctx, key); ok {
			s.metrics.IncrCacheHit(listingCacheName)
			return props, nil
		}
		s.metrics.IncrCacheMiss(listingCacheName)
	}

	props, err := load()
	if err != nil {
		return nil, err
	}
	for i := range props {
		props[i].Normalize()
	}
	if props == nil {
		props = []domain.Property{}
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, props)
	}
	return props, nil
}
