package handler

import (
	"net/http"

	"github.com/boddenberg/rentease-api-go/internal/domain"
	"github.com/boddenberg/rentease-api-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Auth
// ============================================================

func signUpHandler(svc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "handler.SignUp")
		defer span.End()

		var req domain.SignUpRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		resp, err := svc.SignUp(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger, "Failed to create account")
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

func signInHandler(svc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "handler.SignIn")
		defer span.End()

		var req domain.SignInRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		resp, err := svc.SignIn(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger, "Failed to sign in")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func meHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		logger.Debug("current user", zap.String("user_id", user.ID))
		writeJSON(w, http.StatusOK, domain.MeResponse{User: *user})
	}
}

func signOutHandler(svc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "handler.SignOut")
		defer span.End()

		if err := svc.SignOut(ctx, tokenFromContext(ctx)); err != nil {
			handleServiceError(w, err, logger, "Failed to sign out")
			return
		}
		writeJSON(w, http.StatusOK, domain.MessageResponse{Message: "Signed out"})
	}
}
