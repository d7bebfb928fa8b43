package service_test

import (
	"context"
	"errors"
	"sync"

	"github.com/boddenberg/rentease-api-go/internal/domain"
	"github.com/boddenberg/rentease-api-go/internal/infra/memory"
	"github.com/boddenberg/rentease-api-go/internal/infra/observability"
	"github.com/boddenberg/rentease-api-go/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type countingPropertyStore struct {
	mu       sync.Mutex
	inner    *memory.Store
	listHits int
	err      error
}

func (c *countingPropertyStore) ListProperties(ctx context.Context, status domain.PropertyStatus) ([]domain.Property, error) {
	c.mu.Lock()
	c.listHits++
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.ListProperties(ctx, status)
}

func (c *countingPropertyStore) ListFeatured(ctx context.Context, limit int) ([]domain.Property, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.ListFeatured(ctx, limit)
}

func (c *countingPropertyStore) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	return c.inner.GetProperty(ctx, id)
}

func (c *countingPropertyStore) CreateProperty(ctx context.Context, req *domain.CreatePropertyRequest) (string, error) {
	return c.inner.CreateProperty(ctx, req)
}

type failingRentalStore struct{ err error }

func (f failingRentalStore) ListRentalsByUser(context.Context, string) ([]domain.RentalWithProperty, error) {
	return nil, f.err
}

func (f failingRentalStore) CreateRental(context.Context, string, *domain.CreateRentalRequest) (string, error) {
	return "", f.err
}

func (f failingRentalStore) UpdateRentalStatus(context.Context, string, string, domain.RentalStatus) (int64, error) {
	return 0, f.err
}

var errBoom = errors.New("connection reset")

func newServices(store *memory.Store) (*service.PropertyService, *service.RentalService, *service.SavedService, *service.ContactService, *observability.Metrics) {
	metrics := observability.NewMetrics()
	logger := zap.NewNop()
	return service.NewPropertyService(store, nil, metrics, logger),
		service.NewRentalService(store, store, metrics, logger),
		service.NewSavedService(store, metrics, logger),
		service.NewContactService(store, metrics, logger),
		metrics
}

func ptr[T any](v T) *T { return &v }
