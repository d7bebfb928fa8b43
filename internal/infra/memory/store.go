// Package memory is an in-process implementation of every persistence port.
// It backs STORE_BACKEND=memory for local runs and the HTTP-level tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/boddenberg/rentease-api-go/internal/domain"

	"github.com/google/uuid"
)

// Store keeps all rows in maps guarded by a single mutex.
type Store struct {
	mu         sync.RWMutex
	seq        int64
	now        func() time.Time
	lastTick   time.Time
	properties map[string]domain.Property
	rentals    map[string]domain.Rental
	saved      map[string]domain.SavedProperty // keyed by user_id + "|" + property_id
	contacts   []domain.ContactMessage
	users      map[string]domain.UserRecord
}

// New creates an empty store.
func New() *Store {
	return &Store{
		now:        time.Now,
		properties: make(map[string]domain.Property),
		rentals:    make(map[string]domain.Rental),
		saved:      make(map[string]domain.SavedProperty),
		users:      make(map[string]domain.UserRecord),
	}
}

// Seed inserts properties as given, assigning ids and timestamps where missing.
func (s *Store) Seed(props ...domain.Property) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(props))
	for _, p := range props {
		if p.ID == "" {
			p.ID = s.nextID()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = s.tick()
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = p.CreatedAt
		}
		if p.Status == "" {
			p.Status = domain.PropertyStatusAvailable
		}
		p.Normalize()
		s.properties[p.ID] = p
		ids = append(ids, p.ID)
	}
	return ids
}

func (s *Store) Ping(context.Context) error { return nil }

// ============================================================
// Properties
// ============================================================

func (s *Store) ListProperties(_ context.Context, status domain.PropertyStatus) ([]domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Property, 0, len(s.properties))
	for _, p := range s.properties {
		if p.Status == status {
			out = append(out, clonePropertyLists(p))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *Store) ListFeatured(_ context.Context, limit int) ([]domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Property, 0)
	for _, p := range s.properties {
		if p.Featured && p.Status == domain.PropertyStatusAvailable {
			out = append(out, clonePropertyLists(p))
		}
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) GetProperty(_ context.Context, id string) (*domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.properties[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "Property", ID: id}
	}
	p = clonePropertyLists(p)
	return &p, nil
}

func (s *Store) CreateProperty(_ context.Context, req *domain.CreatePropertyRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick()
	country := req.Country
	bedrooms, bathrooms := req.Bedrooms, req.Bathrooms
	p := domain.Property{
		ID:           s.nextID(),
		Title:        req.Title,
		Description:  req.Description,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Country:      &country,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Price:        req.Price,
		Bedrooms:     &bedrooms,
		Bathrooms:    &bathrooms,
		AreaSqft:     req.AreaSqft,
		PropertyType: req.PropertyType,
		Status:       domain.PropertyStatusAvailable,
		Amenities:    append(domain.StringList{}, req.Amenities...),
		Images:       append(domain.StringList{}, req.Images...),
		Featured:     req.Featured,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.properties[p.ID] = p
	return p.ID, nil
}

// ============================================================
// Rentals
// ============================================================

func (s *Store) ListRentalsByUser(_ context.Context, userID string) ([]domain.RentalWithProperty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.RentalWithProperty, 0)
	for _, r := range s.rentals {
		if r.UserID != userID {
			continue
		}
		p, ok := s.properties[r.PropertyID]
		if !ok {
			continue // inner join semantics
		}
		out = append(out, domain.RentalWithProperty{
			Rental: r,
			Property: domain.RentalProperty{
				ID:      p.ID,
				Title:   p.Title,
				Address: p.Address,
				City:    p.City,
				State:   p.State,
				Images:  append(domain.StringList{}, p.Images...),
				Price:   p.Price,
			},
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CreateRental(_ context.Context, userID string, req *domain.CreateRentalRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick()
	r := domain.Rental{
		ID:          s.nextID(),
		UserID:      userID,
		PropertyID:  string(req.PropertyID),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      domain.RentalStatusPending,
		TotalAmount: req.TotalAmount,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.rentals[r.ID] = r
	return r.ID, nil
}

func (s *Store) UpdateRentalStatus(_ context.Context, id, userID string, status domain.RentalStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rentals[id]
	if !ok || r.UserID != userID {
		return 0, nil
	}
	r.Status = status
	r.UpdatedAt = s.tick()
	s.rentals[id] = r
	return 1, nil
}

// ============================================================
// Saved properties
// ============================================================

func savedKey(userID, propertyID string) string {
	return userID + "|" + propertyID
}

func (s *Store) ListSaved(_ context.Context, userID string) ([]domain.SavedProperty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SavedProperty, 0)
	for _, sp := range s.saved {
		if sp.UserID != userID {
			continue
		}
		p, ok := s.properties[sp.PropertyID]
		if !ok {
			continue
		}
		sp.Property = clonePropertyLists(p)
		out = append(out, sp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) IsSaved(_ context.Context, userID, propertyID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.saved[savedKey(userID, propertyID)]
	return ok, nil
}

func (s *Store) SaveIfAbsent(_ context.Context, userID, propertyID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := savedKey(userID, propertyID)
	if existing, ok := s.saved[key]; ok {
		return existing.ID, false, nil
	}
	sp := domain.SavedProperty{
		ID:         s.nextID(),
		UserID:     userID,
		PropertyID: propertyID,
		CreatedAt:  s.tick(),
	}
	s.saved[key] = sp
	return sp.ID, true, nil
}

func (s *Store) DeleteSaved(_ context.Context, userID, propertyID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := savedKey(userID, propertyID)
	if _, ok := s.saved[key]; !ok {
		return 0, nil
	}
	delete(s.saved, key)
	return 1, nil
}

// ============================================================
// Contact messages
// ============================================================

func (s *Store) CreateContactMessage(_ context.Context, req *domain.ContactRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := domain.ContactMessage{
		ID:        s.nextID(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     optional(req.Phone),
		Subject:   optional(req.Subject),
		Message:   req.Message,
		CreatedAt: s.tick(),
	}
	s.contacts = append(s.contacts, msg)
	return msg.ID, nil
}

// ContactMessages returns a copy of every stored message, oldest first.
func (s *Store) ContactMessages() []domain.ContactMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ContactMessage(nil), s.contacts...)
}

// ============================================================
// Users
// ============================================================

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*domain.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Store) CreateUser(_ context.Context, email, passwordHash string, fullName *string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return nil, &domain.ErrAlreadyExists{Message: "User already exists"}
		}
	}
	rec := domain.UserRecord{
		User:         domain.User{ID: uuid.NewString(), Email: email, FullName: fullName},
		PasswordHash: passwordHash,
		CreatedAt:    s.tick(),
	}
	s.users[rec.ID] = rec
	user := rec.User
	return &user, nil
}

// nextID returns a decimal id, mirroring auto-increment keys.
// Caller holds the write lock.
func (s *Store) nextID() string {
	s.seq++
	return strconv.FormatInt(s.seq, 10)
}

// tick returns a strictly increasing timestamp so newest-first ordering is
// stable even when rows are created within the same clock reading.
// Caller holds the write lock.
func (s *Store) tick() time.Time {
	t := s.now().UTC()
	s.lastTick = maxTime(t, s.lastTick.Add(time.Microsecond))
	return s.lastTick
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func clonePropertyLists(p domain.Property) domain.Property {
	p.Amenities = append(domain.StringList{}, p.Amenities...)
	p.Images = append(domain.StringList{}, p.Images...)
	return p
}

func sortNewestFirst(props []domain.Property) {
	sort.SliceStable(props, func(i, j int) bool {
		return props[i].CreatedAt.After(props[j].CreatedAt)
	})
}
