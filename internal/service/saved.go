package service

import (
	"context"
	"fmt"

	"github.com/boddenberg/rentease-api-go/internal/domain"
	"github.com/boddenberg/rentease-api-go/internal/infra/observability"
	"github.com/boddenberg/rentease-api-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var savedTracer = otel.Tracer("service/saved")

// SavedService manages a user's saved properties.
type SavedService struct {
	store   port.SavedStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewSavedService creates a saved-property service.
func NewSavedService(store port.SavedStore, metrics *observability.Metrics, logger *zap.Logger) *SavedService {
	return &SavedService{store: store, metrics: metrics, logger: logger}
}

// List returns the user's saved properties with their listings, newest first.
func (s *SavedService) List(ctx context.Context, userID string) ([]domain.SavedProperty, error) {
	ctx, span := savedTracer.Start(ctx, "SavedService.List")
	defer span.End()

	saved, err := s.store.ListSaved(ctx, userID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		saved = []domain.SavedProperty{}
	}
	for i := range saved {
		saved[i].Property.Normalize()
	}
	return saved, nil
}

// Check reports whether the user has saved the property.
func (s *SavedService) Check(ctx context.Context, userID, propertyID string) (bool, error) {
	ctx, span := savedTracer.Start(ctx, "SavedService.Check")
	defer span.End()

	return s.store.IsSaved(ctx, userID, propertyID)
}

// Save bookmarks a property. A second save of the same pair fails with
// *domain.ErrAlreadyExists.
func (s *SavedService) Save(ctx context.Context, userID, propertyID string) (string, error) {
	ctx, span := savedTracer.Start(ctx, "SavedService.Save")
	defer span.End()

	if propertyID == "" {
		return "", &domain.ErrValidation{Field: "property_id", Message: "Property ID is required"}
	}

	id, inserted, err := s.store.SaveIfAbsent(ctx, userID, propertyID)
	if err != nil {
		return "", fmt.Errorf("save property: %w", err)
	}
	if !inserted {
		return "", &domain.ErrAlreadyExists{Message: "Property already saved"}
	}
	s.metrics.IncrEvent(observability.EventPropertySaved)

	s.logger.Info("property saved",
		zap.String("user_id", userID),
		zap.String("property_id", propertyID),
	)
	return id, nil
}

// Unsave removes a bookmark. Nothing to remove is *domain.ErrNotFound.
func (s *SavedService) Unsave(ctx context.Context, userID, propertyID string) error {
	ctx, span := savedTracer.Start(ctx, "SavedService.Unsave")
	defer span.End()

	n, err := s.store.DeleteSaved(ctx, userID, propertyID)
	if err != nil {
		return fmt.Errorf("unsave property: %w", err)
	}
	if n == 0 {
		return &domain.ErrNotFound{Resource: "Saved property", ID: propertyID}
	}
	s.metrics.IncrEvent(observability.EventPropertyUnsaved)
	return nil
}
