package handler

import (
	"net/http"

	"github.com/boddenberg/rentease-api-go/internal/domain"
	"github.com/boddenberg/rentease-api-go/internal/service"

	"go.uber.org/zap"
)

func contactHandler(svc *service.ContactService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "handler.Contact")
		defer span.End()

		var req domain.ContactRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		id, err := svc.Submit(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger, "Failed to send message")
			return
		}
		writeJSON(w, http.StatusCreated, domain.CreatedResponse{ID: id, Message: "Message sent successfully"})
	}
}
