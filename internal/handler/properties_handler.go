package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/boddenberg/rentease-api-go/internal/domain"
	"github.com/boddenberg/rentease-api-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Properties
// ============================================================

func listPropertiesHandler(svc *service.PropertyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "handler.ListProperties")
		defer span.End()

		filter, err := parsePropertyFilter(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		props, err := svc.Search(ctx, filter)
		if err != nil {
			handleServiceError(w, err, logger, "Failed to fetch properties")
			return
		}
		writeJSON(w, http.StatusOK, props)
	}
}

func featuredPropertiesHandler(svc *service.PropertyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "handler.FeaturedProperties")
		defer span.End()

		props, err := svc.Featured(ctx)
		if err != nil {
			handleServiceError(w, err, logger, "Failed to fetch featured properties")
			return
		}
		writeJSON(w, http.StatusOK, props)
	}
}

func getPropertyHandler(svc *service.PropertyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		ctx, span := tracer.Start(r.Context(), "handler.GetProperty")
		defer span.End()
		span.SetAttributes(attribute.String("property.id", id))

		prop, err := svc.Get(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger, "Failed to fetch property")
			return
		}
		writeJSON(w, http.StatusOK, prop)
	}
}

func createPropertyHandler(svc *service.PropertyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "handler.CreateProperty")
		defer span.End()

		var req domain.CreatePropertyRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		id, err := svc.Create(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger, "Failed to create property")
			return
		}
		writeJSON(w, http.StatusCreated, domain.CreatedResponse{ID: id, Message: "Property created"})
	}
}

// parsePropertyFilter reads q, type, min_price and max_price.
func parsePropertyFilter(r *http.Request) (domain.PropertyFilter, error) {
	q := r.URL.Query()
	f := domain.PropertyFilter{
		Query: strings.TrimSpace(q.Get("q")),
		Type:  strings.TrimSpace(q.Get("type")),
	}
	var err error
	if f.MinPrice, err = parsePrice(q.Get("min_price"), "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parsePrice(q.Get("max_price"), "max_price"); err != nil {
		return f, err
	}
	return f, nil
}

func parsePrice(raw, field string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, &domain.ErrValidation{Field: field, Message: "Invalid " + field}
	}
	return &v, nil
}
