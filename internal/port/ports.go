// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service layer
// from the MySQL, Supabase and in-memory store implementations.
package port

import (
	"context"

	"github.com/boddenberg/rentease-api-go/internal/domain"
)

// PropertyStore reads and creates listings.
type PropertyStore interface {
	// ListProperties returns properties with the given status, newest first.
	ListProperties(ctx context.Context, status domain.PropertyStatus) ([]domain.Property, error)
	// ListFeatured returns featured available properties, newest first, at most limit.
	ListFeatured(ctx context.Context, limit int) ([]domain.Property, error)
	// GetProperty returns the property or *domain.ErrNotFound.
	GetProperty(ctx context.Context, id string) (*domain.Property, error)
	// CreateProperty persists an already-defaulted request and returns the new id.
	CreateProperty(ctx context.Context, req *domain.CreatePropertyRequest) (string, error)
}

// RentalStore persists rental applications.
type RentalStore interface {
	ListRentalsByUser(ctx context.Context, userID string) ([]domain.RentalWithProperty, error)
	CreateRental(ctx context.Context, userID string, req *domain.CreateRentalRequest) (string, error)
	// UpdateRentalStatus updates only a row owned by userID and reports the
	// number of rows changed.
	UpdateRentalStatus(ctx context.Context, id, userID string, status domain.RentalStatus) (int64, error)
}

// SavedStore persists saved properties.
type SavedStore interface {
	ListSaved(ctx context.Context, userID string) ([]domain.SavedProperty, error)
	IsSaved(ctx context.Context, userID, propertyID string) (bool, error)
	// SaveIfAbsent inserts in a single conditional statement. inserted is
	// false when the pair already existed.
	SaveIfAbsent(ctx context.Context, userID, propertyID string) (id string, inserted bool, err error)
	// DeleteSaved reports the number of rows removed.
	DeleteSaved(ctx context.Context, userID, propertyID string) (int64, error)
}

// ContactStore persists contact messages. Write-only.
type ContactStore interface {
	CreateContactMessage(ctx context.Context, req *domain.ContactRequest) (string, error)
}

// UserStore persists local accounts for the token-based identity provider.
type UserStore interface {
	// GetUserByEmail returns nil, nil when no account exists.
	GetUserByEmail(ctx context.Context, email string) (*domain.UserRecord, error)
	// GetUserByID returns nil, nil when no account exists.
	GetUserByID(ctx context.Context, id string) (*domain.UserRecord, error)
	// CreateUser returns *domain.ErrAlreadyExists for a taken email.
	CreateUser(ctx context.Context, email, passwordHash string, fullName *string) (*domain.User, error)
}

// Store bundles every persistence port a backend provides.
type Store interface {
	PropertyStore
	RentalStore
	SavedStore
	ContactStore
	// Ping verifies connectivity for health checks.
	Ping(ctx context.Context) error
}

// IdentityProvider establishes and resolves sessions.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password, fullName string) (*domain.AuthResponse, error)
	SignIn(ctx context.Context, email, password string) (*domain.AuthResponse, error)
	// ResolveToken returns the identity behind a bearer token.
	ResolveToken(ctx context.Context, token string) (*domain.User, error)
	SignOut(ctx context.Context, token string) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(ctx context.Context, key string) (T, bool)
	Set(ctx context.Context, key string, value T)
	Delete(ctx context.Context, key string)
}
