package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/boddenberg/rentease-api-go/internal/domain"
	"github.com/boddenberg/rentease-api-go/internal/infra/observability"
	"github.com/boddenberg/rentease-api-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var contactTracer = otel.Tracer("service/contact")

// ContactService accepts contact form submissions.
type ContactService struct {
	store   port.ContactStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewContactService creates a contact service.
func NewContactService(store port.ContactStore, metrics *observability.Metrics, logger *zap.Logger) *ContactService {
	return &ContactService{store: store, metrics: metrics, logger: logger}
}

// Submit persists a contact message. Name, email and message are required.
func (s *ContactService) Submit(ctx context.Context, req *domain.ContactRequest) (string, error) {
	ctx, span := contactTracer.Start(ctx, "ContactService.Submit")
	defer span.End()

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
		return "", &domain.ErrValidation{Message: "Name, email, and message are required"}
	}

	id, err := s.store.CreateContactMessage(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create contact message: %w", err)
	}
	s.metrics.IncrEvent(observability.EventContactSubmitted)

	s.logger.Info("contact message received", zap.String("message_id", id))
	return id, nil
}
