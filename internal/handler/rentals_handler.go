package handler

import (
	"net/http"

	"github.com/boddenberg/rentease-api-go/internal/domain"
	"github.com/boddenberg/rentease-api-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Rentals (bearer required)
// ============================================================

func listRentalsHandler(svc *service.RentalService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "handler.ListRentals")
		defer span.End()

		user := UserFromContext(ctx)
		rentals, err := svc.ListMine(ctx, user.ID)
		if err != nil {
			handleServiceError(w, err, logger, "Failed to fetch rentals")
			return
		}
		writeJSON(w, http.StatusOK, rentals)
	}
}

func createRentalHandler(svc *service.RentalService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "handler.CreateRental")
		defer span.End()

		var req domain.CreateRentalRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user := UserFromContext(ctx)
		id, err := svc.Create(ctx, user.ID, &req)
		if err != nil {
			handleServiceError(w, err, logger, "Failed to submit rental application")
			return
		}
		writeJSON(w, http.StatusCreated, domain.CreatedResponse{ID: id, Message: "Rental application submitted"})
	}
}

func updateRentalHandler(svc *service.RentalService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		ctx, span := tracer.Start(r.Context(), "handler.UpdateRental")
		defer span.End()
		span.SetAttributes(attribute.String("rental.id", id))

		var req domain.UpdateRentalRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user := UserFromContext(ctx)
		if err := svc.UpdateStatus(ctx, id, user.ID, req.Status); err != nil {
			handleServiceError(w, err, logger, "Failed to update rental")
			return
		}
		writeJSON(w, http.StatusOK, domain.MessageResponse{Message: "Rental updated"})
	}
}
