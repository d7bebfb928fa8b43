package handler

import (
	"net/http"

	"github.com/boddenberg/rentease-api-go/internal/domain"
	"github.com/boddenberg/rentease-api-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func listSavedHandler(svc *service.SavedService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "handler.ListSaved")
		defer span.End()

		saved, err := svc.List(ctx, UserFromContext(ctx).ID)
		if err != nil {
			handleServiceError(w, err, logger, "Failed to fetch saved properties")
			return
		}
		writeJSON(w, http.StatusOK, saved)
	}
}

func checkSavedHandler(svc *service.SavedService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "handler.CheckSaved")
		defer span.End()

		saved, err := svc.Check(ctx, UserFromContext(ctx).ID, chi.URLParam(r, "propertyId"))
		if err != nil {
			handleServiceError(w, err, logger, "Failed to check saved status")
			return
		}
		writeJSON(w, http.StatusOK, domain.SavedCheckResponse{Saved: saved})
	}
}

func saveHandler(svc *service.SavedService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "handler.Save")
		defer span.End()

		var req domain.SaveRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		id, err := svc.Save(ctx, UserFromContext(ctx).ID, string(req.PropertyID))
		if err != nil {
			handleServiceError(w, err, logger, "Failed to save property")
			return
		}
		writeJSON(w, http.StatusCreated, domain.CreatedResponse{ID: id, Message: "Property saved"})
	}
}

func unsaveHandler(svc *service.SavedService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "handler.Unsave")
		defer span.End()

		if err := svc.Unsave(ctx, UserFromContext(ctx).ID, chi.URLParam(r, "propertyId")); err != nil {
			handleServiceError(w, err, logger, "Failed to unsave property")
			return
		}
		writeJSON(w, http.StatusOK, domain.MessageResponse{Message: "Property unsaved"})
	}
}
