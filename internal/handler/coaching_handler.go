package handler

import (
	"net/http"

	"github.com/mhalvorsen/coachdesk/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Coach assignment handlers
// ============================================================

type assignRequest struct {
	CoachID string `json:"coach_id"`
}

func assignCoachHandler(svc *service.CoachingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /students/{profileId}/coach")
		defer span.End()

		var req assignRequest
		if err := decodeBody(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if req.CoachID == "" {
			writeError(w, http.StatusBadRequest, "coach_id required")
			return
		}

		if err := svc.Assign(ctx, chi.URLParam(r, "profileId"), req.CoachID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"assigned": true})
	}
}

func unassignCoachHandler(svc *service.CoachingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /students/{profileId}/coach")
		defer span.End()

		if err := svc.Unassign(ctx, chi.URLParam(r, "profileId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type bulkAssignRequest struct {
	StudentIDs  []string `json:"student_ids"`
	StopOnError bool     `json:"stop_on_error"`
}

func bulkAssignHandler(svc *service.CoachingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /coaches/{profileId}/students")
		defer span.End()

		var req bulkAssignRequest
		if err := decodeBody(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		result, err := svc.BulkAssign(ctx, req.StudentIDs, chi.URLParam(r, "profileId"), service.BulkAssignOptions{
			StopOnError: req.StopOnError,
		})
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}
