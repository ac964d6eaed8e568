package handler

import (
	"net/http"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// User + profile handlers (admin surface)
// ============================================================

func listUsersHandler(svc *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /users")
		defer span.End()

		users, err := svc.ListUsers(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

func getUserHandler(svc *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /users/{userId}")
		defer span.End()

		user, err := svc.GetUser(ctx, chi.URLParam(r, "userId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func createUserHandler(svc *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /users")
		defer span.End()

		var req domain.CreateUserRequest
		if err := decodeBody(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if req.Email == "" || req.Name == "" || req.Role == "" {
			writeError(w, http.StatusBadRequest, "email, name and role required")
			return
		}

		result, err := svc.CreateUser(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	}
}

func updateUserHandler(svc *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /users/{userId}")
		defer span.End()

		var fields map[string]any
		if err := decodeBody(r, &fields); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if len(fields) == 0 {
			writeError(w, http.StatusBadRequest, "no fields to update")
			return
		}

		user, err := svc.UpdateUser(ctx, chi.URLParam(r, "userId"), fields)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func deleteUserHandler(svc *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /users/{userId}")
		defer span.End()

		if err := svc.DeleteUser(ctx, chi.URLParam(r, "userId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Student profiles
// ============================================================

// listStudentsHandler scopes the list by role: a coach sees only their
// own students, managers and admins see everyone.
func listStudentsHandler(accountSvc *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /students")
		defer span.End()

		if RoleFromContext(ctx) == domain.RoleCoach {
			students, err := accountSvc.ListStudentsForCoachUser(ctx, UserIDFromContext(ctx))
			if err != nil {
				handleServiceError(w, err, logger)
				return
			}
			writeJSON(w, http.StatusOK, students)
			return
		}

		students, err := accountSvc.ListStudents(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, students)
	}
}

func getStudentHandler(svc *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /students/{profileId}")
		defer span.End()

		profile, err := svc.GetStudent(ctx, chi.URLParam(r, "profileId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func updateStudentHandler(svc *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /students/{profileId}")
		defer span.End()

		var fields map[string]any
		if err := decodeBody(r, &fields); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		// The coach relation has its own endpoints.
		delete(fields, "coach")
		if len(fields) == 0 {
			writeError(w, http.StatusBadRequest, "no fields to update")
			return
		}

		profile, err := svc.UpdateStudent(ctx, chi.URLParam(r, "profileId"), fields)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

// myProfileHandler returns the student profile of the effective user.
func myProfileHandler(accountSvc *service.AccountService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /profile")
		defer span.End()

		profile, err := accountSvc.GetStudentForUser(ctx, effectiveUserID(r, impSvc))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func updateMyProfileHandler(accountSvc *service.AccountService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /profile")
		defer span.End()

		var fields map[string]any
		if err := decodeBody(r, &fields); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		delete(fields, "coach")
		if len(fields) == 0 {
			writeError(w, http.StatusBadRequest, "no fields to update")
			return
		}

		profile, err := accountSvc.GetStudentForUser(ctx, effectiveUserID(r, impSvc))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		updated, err := accountSvc.UpdateStudent(ctx, profile.ID, fields)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// ============================================================
// Coach profiles
// ============================================================

func listCoachesHandler(svc *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /coaches")
		defer span.End()

		coaches, err := svc.ListCoaches(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, coaches)
	}
}

func updateCoachHandler(svc *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /coaches/{profileId}")
		defer span.End()

		var fields map[string]any
		if err := decodeBody(r, &fields); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if len(fields) == 0 {
			writeError(w, http.StatusBadRequest, "no fields to update")
			return
		}

		if err := svc.UpdateCoach(ctx, chi.URLParam(r, "profileId"), fields); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
