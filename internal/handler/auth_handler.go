package handler

import (
	"net/http"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Auth + session handlers
// ============================================================

func authLoginHandler(authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /auth/login")
		defer span.End()

		var req domain.LoginRequest
		if err := decodeBody(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password required")
			return
		}

		resp, err := authSvc.Login(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// meHandler returns the caller's user record, or the impersonated
// target's when a session is active.
func meHandler(accountSvc *service.AccountService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /me")
		defer span.End()

		userID := effectiveUserID(r, impSvc)
		user, err := accountSvc.GetUser(ctx, userID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		resp := map[string]any{"user": user}
		if imp := impSvc.Current(UserIDFromContext(r.Context())); imp != nil {
			resp["impersonation"] = imp
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func impersonationStartHandler(impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /impersonation/{userId}")
		defer span.End()

		targetID := chi.URLParam(r, "userId")
		imp, err := impSvc.Start(ctx, UserIDFromContext(r.Context()), targetID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, imp)
	}
}

func impersonationCurrentHandler(impSvc *service.ImpersonationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		imp := impSvc.Current(UserIDFromContext(r.Context()))
		if imp == nil {
			writeJSON(w, http.StatusOK, map[string]any{"active": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"active": true, "impersonation": imp})
	}
}

func impersonationStopHandler(impSvc *service.ImpersonationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		impSvc.Stop(UserIDFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}
}
