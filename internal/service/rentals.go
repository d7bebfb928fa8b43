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

var rentalTracer = otel.Tracer("service/rentals")

// RentalService runs the rental application workflow.
type RentalService struct {
	rentals    port.RentalStore
	properties port.PropertyStore
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewRentalService creates a rental service. properties is used to derive
// the lease total when the caller does not supply one.
func NewRentalService(rentals port.RentalStore, properties port.PropertyStore, metrics *observability.Metrics, logger *zap.Logger) *RentalService {
	return &RentalService{rentals: rentals, properties: properties, metrics: metrics, logger: logger}
}

// ListMine returns the user's rentals, newest first.
func (s *RentalService) ListMine(ctx context.Context, userID string) ([]domain.RentalWithProperty, error) {
	ctx, span := rentalTracer.Start(ctx, "RentalService.ListMine")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	rentals, err := s.rentals.ListRentalsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rentals == nil {
		rentals = []domain.RentalWithProperty{}
	}
	for i := range rentals {
		rentals[i].Property.Images = rentals[i].Property.Images.OrEmpty()
	}
	return rentals, nil
}

// Create submits a pending rental application.
func (s *RentalService) Create(ctx context.Context, userID string, req *domain.CreateRentalRequest) (string, error) {
	ctx, span := rentalTracer.Start(ctx, "RentalService.Create")
	defer span.End()

	if req.PropertyID == "" || req.StartDate == "" || req.EndDate == "" {
		return "", &domain.ErrValidation{Message: "Property ID, start date, and end date are required"}
	}
	if err := validateDate("start_date", req.StartDate); err != nil {
		return "", err
	}
	if err := validateDate("end_date", req.EndDate); err != nil {
		return "", err
	}

	if req.TotalAmount == nil {
		p, err := s.properties.GetProperty(ctx, string(req.PropertyID))
		if err != nil {
			return "", err
		}
		total := domain.DeriveTotalAmount(p.Price)
		req.TotalAmount = &total
	} else if *req.TotalAmount < 0 {
		return "", &domain.ErrValidation{Field: "total_amount", Message: "Total amount must not be negative"}
	}

	start := time.Now()
	id, err := s.rentals.CreateRental(ctx, userID, req)
	if err != nil {
		return "", fmt.Errorf("create rental: %w", err)
	}
	s.metrics.RecordOperation("rental_create", time.Since(start))
	s.metrics.IncrEvent(observability.EventRentalCreated)

	s.logger.Info("rental application submitted",
		zap.String("rental_id", id),
		zap.String("user_id", userID),
		zap.String("property_id", string(req.PropertyID)),
		zap.Float64("total_amount", *req.TotalAmount),
	)
	return id, nil
}

// UpdateStatus changes the status of a rental owned by userID.
func (s *RentalService) UpdateStatus(ctx context.Context, id, userID string, status domain.RentalStatus) error {
	ctx, span := rentalTracer.Start(ctx, "RentalService.UpdateStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("rental.id", id),
		attribute.String("rental.status", string(status)),
	)

	if !status.Valid() {
		return &domain.ErrValidation{Field: "status", Message: fmt.Sprintf("Invalid status: %s", status)}
	}

	n, err := s.rentals.UpdateRentalStatus(ctx, id, userID, status)
	if err != nil {
		return fmt.Errorf("update rental: %w", err)
	}
	if n == 0 {
		return &domain.ErrNotFound{Resource: "Rental", ID: id}
	}
	s.metrics.IncrEvent(observability.EventRentalUpdated)

	s.logger.Info("rental status updated",
		zap.String("rental_id", id),
		zap.String("user_id", userID),
		zap.String("status", string(status)),
	)
	return nil
}

func validateDate(field, value string) error {
	if _, err := time.Parse(domain.DateLayout, value); err != nil {
		return &domain.ErrValidation{Field: field, Message: fmt.Sprintf("Invalid %s: expected YYYY-MM-DD", field)}
	}
	return nil
}
