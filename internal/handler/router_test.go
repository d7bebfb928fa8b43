package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/boddenberg/rentease-api-go/internal/domain"
	"github.com/boddenberg/rentease-api-go/internal/handler"
	"github.com/boddenberg/rentease-api-go/internal/infra/memory"
	"github.com/boddenberg/rentease-api-go/internal/infra/observability"
	"github.com/boddenberg/rentease-api-go/internal/service"

	"go.uber.org/zap"
)

const testSecret = "test-secret"

type testEnv struct {
	router  http.Handler
	store   *memory.Store
	metrics *observability.Metrics
	propIDs []string
}

func newTestEnv(t *testing.T, cfg handler.RouterConfig) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	store := memory.New()

	state := "NY"
	ids := store.Seed(
		domain.Property{Title: "Luxury Downtown Penthouse", Address: "1 Park Ave", City: "New York", State: &state, Price: 8500, PropertyType: domain.PropertyTypePenthouse, Status: domain.PropertyStatusAvailable, Featured: true},
		domain.Property{Title: "Modern Waterfront Studio", Address: "2 Bay St", City: "San Francisco", Price: 2800, PropertyType: domain.PropertyTypeStudio, Status: domain.PropertyStatusAvailable},
		domain.Property{Title: "Closed Office", Address: "3 Loop", City: "Chicago", Price: 5500, PropertyType: domain.PropertyTypeOffice, Status: domain.PropertyStatusRented},
	)

	identity := service.NewLocalIdentity(store, testSecret, time.Hour, logger)
	svc := handler.Services{
		Properties: service.NewPropertyService(store, nil, metrics, logger),
		Rentals:    service.NewRentalService(store, store, metrics, logger),
		Saved:      service.NewSavedService(store, metrics, logger),
		Contact:    service.NewContactService(store, metrics, logger),
		Auth:       service.NewAuthService(identity, metrics, logger),
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = 10
	}
	if cfg.Backend == "" {
		cfg.Backend = "memory"
	}
	return &testEnv{
		router:  handler.NewRouter(svc, cfg, metrics, logger),
		store:   store,
		metrics: metrics,
		propIDs: ids,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) signUp(t *testing.T, email string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/signup", "", domain.SignUpRequest{Email: email, Password: "secret123", FullName: "Test User"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp domain.AuthResponse
	decode(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("signup: expected a token")
	}
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	var body struct {
		Error string `json:"error"`
	}
	decode(t, rec, &body)
	if body.Error != msg {
		t.Errorf("expected error %q, got %q", msg, body.Error)
	}
}

// --- Operational endpoints ---

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{Probes: []handler.Probe{
		{Name: "store", Check: func(context.Context) error { return nil }},
		{Name: "cache", Check: func(context.Context) error { return errors.New("down") }},
	}})

	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var h domain.HealthStatus
	decode(t, rec, &h)
	if h.Status != "degraded" || h.Backend != "memory" || len(h.Services) != 2 {
		t.Errorf("unexpected health report: %+v", h)
	}
	if h.Services[1].Error != "down" {
		t.Errorf("expected probe error to be reported, got %+v", h.Services[1])
	}
}

func TestHealthz_AllDown(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{Probes: []handler.Probe{
		{Name: "store", Check: func(context.Context) error { return errors.New("refused") }},
	}})

	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestReadyzAndPing(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{})

	for _, path := range []string{"/readyz", "/ping", "/api/health"} {
		if rec := env.do(t, http.MethodGet, path, "", nil); rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestMetrics(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{})
	env.do(t, http.MethodGet, "/api/properties", "", nil)

	rec := env.do(t, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_request_duration_seconds") {
		t.Error("expected HTTP duration histogram in exposition")
	}
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{})

	expectError(t, env.do(t, http.MethodGet, "/api/nope", "", nil), http.StatusNotFound, "Endpoint not found")
	expectError(t, env.do(t, http.MethodPut, "/api/contact", "", nil), http.StatusNotFound, "Endpoint not found")
}

// --- Properties ---

func TestListProperties_AvailableOnly(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{})

	rec := env.do(t, http.MethodGet, "/api/properties", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var props []domain.Property
	decode(t, rec, &props)
	if len(props) != 2 {
		t.Fatalf("expected 2 available properties, got %d", len(props))
	}
	// newest first
	if props[0].Title != "Modern Waterfront Studio" {
		t.Errorf("expected newest first, got %q", props[0].Title)
	}
}

func TestListProperties_Filter(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{})

	rec := env.do(t, http.MethodGet, "/api/properties?q=new&max_price=9000", "", nil)
	var props []domain.Property
	decode(t, rec, &props)
	if len(props) != 1 || props[0].City != "New York" {
		t.Errorf("unexpected filter result: %+v", props)
	}

	rec = env.do(t, http.MethodGet, "/api/properties?min_price=abc", "", nil)
	expectError(t, rec, http.StatusBadRequest, "Invalid min_price")
}

func TestFeaturedProperties(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{})

	var props []domain.Property
	decode(t, env.do(t, http.MethodGet, "/api/properties/featured", "", nil), &props)
	if len(props) != 1 || !props[0].Featured {
		t.Errorf("expected the single featured property, got %+v", props)
	}
}

func TestGetProperty(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{})

	rec := env.do(t, http.MethodGet, "/api/properties/"+env.propIDs[0], "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var p domain.Property
	decode(t, rec, &p)
	if p.Amenities == nil || p.Images == nil {
		t.Error("expected empty lists, not null")
	}

	expectError(t, env.do(t, http.MethodGet, "/api/properties/9999", "", nil), http.StatusNotFound, "Property not found")
}

func TestCreateProperty(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{})
	req := domain.CreatePropertyRequest{Title: "Loft", Address: "4 Main", City: "Austin", Price: 1900}

	expectError(t, env.do(t, http.MethodPost, "/api/properties", "", req), http.StatusUnauthorized, "Access token required")

	token := env.signUp(t, "owner@example.com")
	rec := env.do(t, http.MethodPost, "/api/properties", token, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created domain.CreatedResponse
	decode(t, rec, &created)

	var p domain.Property
	decode(t, env.do(t, http.MethodGet, "/api/properties/"+created.ID, "", nil), &p)
	if p.Country == nil || *p.Country != "USA" || p.PropertyType != domain.PropertyTypeApartment {
		t.Errorf("expected defaults applied, got %+v", p)
	}
}

// --- Contact ---

func TestContact(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{})

	rec := env.do(t, http.MethodPost, "/api/contact", "", map[string]string{"name": "Ada", "email": "ada@x.com", "message": "Hi"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var created domain.CreatedResponse
	decode(t, rec, &created)
	if created.ID == "" {
		t.Error("expected generated id")
	}

	rec = env.do(t, http.MethodPost, "/api/contact", "", map[string]string{"name": "Ada", "email": "ada@x.com"})
	expectError(t, rec, http.StatusBadRequest, "Name, email, and message are required")

	if n := len(env.store.ContactMessages()); n != 1 {
		t.Errorf("expected 1 stored message, got %d", n)
	}
}

func TestInvalidBody(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{})

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	expectError(t, rec, http.StatusBadRequest, "Invalid request body")
}

// --- Auth ---

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{})
	token := env.signUp(t, "Jane@Example.com")

	rec := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var me domain.MeResponse
	decode(t, rec, &me)
	if me.User.Email != "jane@example.com" {
		t.Errorf("expected normalized email, got %q", me.User.Email)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/signin", "", domain.SignInRequest{Email: "jane@example.com", Password: "secret123"})
	if rec.Code != http.StatusOK {
		t.Errorf("signin: expected 200, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/signin", "", domain.SignInRequest{Email: "jane@example.com", Password: "wrong"})
	expectError(t, rec, http.StatusUnauthorized, "Invalid email or password")

	rec = env.do(t, http.MethodPost, "/api/auth/signup", "", domain.SignUpRequest{Email: "jane@example.com", Password: "secret123"})
	expectError(t, rec, http.StatusBadRequest, "User already exists")

	if rec := env.do(t, http.MethodPost, "/api/auth/signout", token, nil); rec.Code != http.StatusOK {
		t.Errorf("signout: expected 200, got %d", rec.Code)
	}
}

func TestRequireUser(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{})

	expectError(t, env.do(t, http.MethodGet, "/api/auth/me", "", nil), http.StatusUnauthorized, "Access token required")
	expectError(t, env.do(t, http.MethodGet, "/api/auth/me", "garbage", nil), http.StatusForbidden, "Invalid or expired token")
}

// --- Rentals ---

func TestCreateRental(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{})
	body := domain.CreateRentalRequest{PropertyID: domain.ID(env.propIDs[0]), StartDate: "2025-01-01", EndDate: "2025-12-31"}

	expectError(t, env.do(t, http.MethodPost, "/api/rentals", "", body), http.StatusUnauthorized, "Access token required")

	token := env.signUp(t, "renter@example.com")
	rec := env.do(t, http.MethodPost, "/api/rentals", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var rentals []domain.RentalWithProperty
	decode(t, env.do(t, http.MethodGet, "/api/rentals", token, nil), &rentals)
	if len(rentals) != 1 {
		t.Fatalf("expected 1 rental, got %d", len(rentals))
	}
	r := rentals[0]
	if r.Status != domain.RentalStatusPending {
		t.Errorf("expected pending, got %q", r.Status)
	}
	if r.TotalAmount == nil || *r.TotalAmount != 8500*12 {
		t.Errorf("expected derived total 102000, got %v", r.TotalAmount)
	}
	if r.Property.Title != "Luxury Downtown Penthouse" {
		t.Errorf("expected embedded property, got %+v", r.Property)
	}

	rec = env.do(t, http.MethodPost, "/api/rentals", token, domain.CreateRentalRequest{PropertyID: domain.ID(env.propIDs[0])})
	expectError(t, rec, http.StatusBadRequest, "Property ID, start date, and end date are required")

	if env.metrics.EventCount(observability.EventRentalCreated) != 1 {
		t.Error("expected rental_created event")
	}
}

func TestUpdateRental_Ownership(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{})
	owner := env.signUp(t, "owner@example.com")
	other := env.signUp(t, "other@example.com")

	rec := env.do(t, http.MethodPost, "/api/rentals", owner, domain.CreateRentalRequest{PropertyID: domain.ID(env.propIDs[1]), StartDate: "2025-02-01", EndDate: "2025-08-01"})
	var created domain.CreatedResponse
	decode(t, rec, &created)

	path := "/api/rentals/" + created.ID
	expectError(t, env.do(t, http.MethodPatch, path, other, domain.UpdateRentalRequest{Status: domain.RentalStatusApproved}), http.StatusNotFound, "Rental not found")
	expectError(t, env.do(t, http.MethodPatch, path, owner, domain.UpdateRentalRequest{Status: "bogus"}), http.StatusBadRequest, "Invalid status: bogus")

	if rec := env.do(t, http.MethodPatch, path, owner, domain.UpdateRentalRequest{Status: domain.RentalStatusApproved}); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var rentals []domain.RentalWithProperty
	decode(t, env.do(t, http.MethodGet, "/api/rentals", owner, nil), &rentals)
	if rentals[0].Status != domain.RentalStatusApproved {
		t.Errorf("expected approved, got %q", rentals[0].Status)
	}
}

// --- Saved ---

func TestSavedFlow(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{})
	token := env.signUp(t, "saver@example.com")
	propID := env.propIDs[0]

	var check domain.SavedCheckResponse
	decode(t, env.do(t, http.MethodGet, "/api/saved/check/"+propID, token, nil), &check)
	if check.Saved {
		t.Error("expected not saved initially")
	}

	if rec := env.do(t, http.MethodPost, "/api/saved", token, domain.SaveRequest{PropertyID: domain.ID(propID)}); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	expectError(t, env.do(t, http.MethodPost, "/api/saved", token, domain.SaveRequest{PropertyID: domain.ID(propID)}), http.StatusBadRequest, "Property already saved")
	expectError(t, env.do(t, http.MethodPost, "/api/saved", token, domain.SaveRequest{}), http.StatusBadRequest, "Property ID is required")

	var saved []domain.SavedProperty
	decode(t, env.do(t, http.MethodGet, "/api/saved", token, nil), &saved)
	if len(saved) != 1 || saved[0].Property.ID != propID {
		t.Fatalf("expected the saved property with its listing, got %+v", saved)
	}

	if rec := env.do(t, http.MethodDelete, "/api/saved/"+propID, token, nil); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	expectError(t, env.do(t, http.MethodDelete, "/api/saved/"+propID, token, nil), http.StatusNotFound, "Saved property not found")
}

func TestNumericPropertyID(t *testing.T) {
	env := newTestEnv(t, handler.RouterConfig{})
	token := env.signUp(t, "numeric@example.com")
	n, err := strconv.Atoi(env.propIDs[0])
	if err != nil {
		t.Fatalf("seeded id %q is not numeric", env.propIDs[0])
	}

	rec := env.do(t, http.MethodPost, "/api/saved", token, map[string]any{"property_id": n})
	if rec.Code != http.StatusCreated {
		t.Fatalf("save: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var check domain.SavedCheckResponse
	decode(t, env.do(t, http.MethodGet, "/api/saved/check/"+env.propIDs[0], token, nil), &check)
	if !check.Saved {
		t.Error("expected property saved under its decimal id")
	}

	rec = env.do(t, http.MethodPost, "/api/rentals", token, map[string]any{
		"property_id": n, "start_date": "2025-01-01", "end_date": "2025-12-31",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("rental: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var rentals []domain.RentalWithProperty
	decode(t, env.do(t, http.MethodGet, "/api/rentals", token, nil), &rentals)
	if len(rentals) != 1 || rentals[0].PropertyID != env.propIDs[0] {
		t.Errorf("expected rental for property %s, got %+v", env.propIDs[0], rentals)
	}

	rec = env.do(t, http.MethodPost, "/api/saved", token, map[string]any{"property_id": 1.5})
	expectError(t, rec, http.StatusBadRequest, "Invalid request body")
}

// --- CORS ---

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		production bool
		origin     string
		allowed    bool
	}{
		{"development allows any origin", false, "http://evil.test", true},
		{"production allows listed origin", true, "https://rentease.app", true},
		{"production rejects unlisted origin", true, "http://evil.test", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, handler.RouterConfig{
				Production:     tt.production,
				AllowedOrigins: []string{"https://rentease.app"},
			})
			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			env.router.ServeHTTP(rec, req)

			got := rec.Header().Get("Access-Control-Allow-Origin") == tt.origin
			if got != tt.allowed {
				t.Errorf("expected allowed=%v, got header %q", tt.allowed, rec.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}
