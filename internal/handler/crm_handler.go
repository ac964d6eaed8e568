package handler

import (
	"net/http"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Lead pipeline handlers
// ============================================================

func listLeadsHandler(svc *service.CRMService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /leads")
		defer span.End()

		leads, err := svc.ListLeads(ctx, effectiveUserID(r, impSvc))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, leads)
	}
}

func getLeadHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /leads/{leadId}")
		defer span.End()

		lead, err := svc.GetLead(ctx, chi.URLParam(r, "leadId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, lead)
	}
}

func createLeadHandler(svc *service.CRMService, actSvc *service.ActivityService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /leads")
		defer span.End()

		var req domain.CreateLeadRequest
		if err := decodeBody(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		req.UserID = effectiveUserID(r, impSvc)

		lead, err := svc.CreateLead(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		actSvc.Record(req.UserID, "lead_created", "Lead "+lead.Name)
		writeJSON(w, http.StatusCreated, lead)
	}
}

func updateLeadHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /leads/{leadId}")
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

		lead, err := svc.UpdateLead(ctx, chi.URLParam(r, "leadId"), fields)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, lead)
	}
}

func deleteLeadHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /leads/{leadId}")
		defer span.End()

		if err := svc.DeleteLead(ctx, chi.URLParam(r, "leadId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func tagLeadHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /leads/{leadId}/tags")
		defer span.End()

		var req struct {
			Label string `json:"label"`
		}
		if err := decodeBody(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		tag, err := svc.TagLead(ctx, chi.URLParam(r, "leadId"), req.Label)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, tag)
	}
}

func untagLeadHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /leads/{leadId}/tags/{tagId}")
		defer span.End()

		if err := svc.UntagLead(ctx, chi.URLParam(r, "tagId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Goal handlers
// ============================================================

func listGoalsHandler(svc *service.CRMService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /goals")
		defer span.End()

		goals, err := svc.ListGoals(ctx, effectiveUserID(r, impSvc))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, goals)
	}
}

func createGoalHandler(svc *service.CRMService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /goals")
		defer span.End()

		var goal domain.Goal
		if err := decodeBody(r, &goal); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		created, err := svc.CreateGoal(ctx, effectiveUserID(r, impSvc), &goal)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateGoalHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /goals/{goalId}")
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

		goal, err := svc.UpdateGoal(ctx, chi.URLParam(r, "goalId"), fields)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, goal)
	}
}

func deleteGoalHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /goals/{goalId}")
		defer span.End()

		if err := svc.DeleteGoal(ctx, chi.URLParam(r, "goalId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Note handlers
// ============================================================

func listNotesHandler(svc *service.CRMService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /notes")
		defer span.End()

		notes, err := svc.ListNotes(ctx, effectiveUserID(r, impSvc))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, notes)
	}
}

func createNoteHandler(svc *service.CRMService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /notes")
		defer span.End()

		var note domain.Note
		if err := decodeBody(r, &note); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		created, err := svc.CreateNote(ctx, effectiveUserID(r, impSvc), &note)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateNoteHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /notes/{noteId}")
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

		if err := svc.UpdateNote(ctx, chi.URLParam(r, "noteId"), fields); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteNoteHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /notes/{noteId}")
		defer span.End()

		if err := svc.DeleteNote(ctx, chi.URLParam(r, "noteId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Call log handlers (coach surface)
// ============================================================

func listCallLogsHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /students/{profileId}/call-logs")
		defer span.End()

		logs, err := svc.ListCallLogs(ctx, chi.URLParam(r, "profileId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, logs)
	}
}

func createCallLogHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /students/{profileId}/call-logs")
		defer span.End()

		var callLog domain.CallLog
		if err := decodeBody(r, &callLog); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		callLog.StudentID = chi.URLParam(r, "profileId")

		created, err := svc.CreateCallLog(ctx, &callLog)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateCallLogHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /call-logs/{callLogId}")
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

		if err := svc.UpdateCallLog(ctx, chi.URLParam(r, "callLogId"), fields); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteCallLogHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /call-logs/{callLogId}")
		defer span.End()

		if err := svc.DeleteCallLog(ctx, chi.URLParam(r, "callLogId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Pricing package handlers
// ============================================================

func listPricingHandler(svc *service.CRMService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /pricing")
		defer span.End()

		pkgs, err := svc.ListPricingPackages(ctx, effectiveUserID(r, impSvc))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, pkgs)
	}
}

func createPricingHandler(svc *service.CRMService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /pricing")
		defer span.End()

		var pkg domain.PricingPackage
		if err := decodeBody(r, &pkg); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		created, err := svc.CreatePricingPackage(ctx, effectiveUserID(r, impSvc), &pkg)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updatePricingHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /pricing/{packageId}")
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

		if err := svc.UpdatePricingPackage(ctx, chi.URLParam(r, "packageId"), fields); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deletePricingHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /pricing/{packageId}")
		defer span.End()

		if err := svc.DeletePricingPackage(ctx, chi.URLParam(r, "packageId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Product handlers
// ============================================================

func listProductsHandler(svc *service.CRMService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /products")
		defer span.End()

		products, err := svc.ListProducts(ctx, effectiveUserID(r, impSvc))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, products)
	}
}

func createProductHandler(svc *service.CRMService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /products")
		defer span.End()

		var product domain.Product
		if err := decodeBody(r, &product); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		created, err := svc.CreateProduct(ctx, effectiveUserID(r, impSvc), &product)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateProductHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /products/{productId}")
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

		if err := svc.UpdateProduct(ctx, chi.URLParam(r, "productId"), fields); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteProductHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /products/{productId}")
		defer span.End()

		if err := svc.DeleteProduct(ctx, chi.URLParam(r, "productId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func addSubitemHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /products/{productId}/subitems")
		defer span.End()

		var sub domain.Subitem
		if err := decodeBody(r, &sub); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		created, err := svc.AddSubitem(ctx, chi.URLParam(r, "productId"), &sub)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func removeSubitemHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /products/{productId}/subitems/{subitemId}")
		defer span.End()

		if err := svc.RemoveSubitem(ctx, chi.URLParam(r, "subitemId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Message template handlers
// ============================================================

func listTemplatesHandler(svc *service.CRMService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /templates")
		defer span.End()

		templates, err := svc.ListMessageTemplates(ctx, effectiveUserID(r, impSvc))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, templates)
	}
}

func createTemplateHandler(svc *service.CRMService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /templates")
		defer span.End()

		var tmpl domain.MessageTemplate
		if err := decodeBody(r, &tmpl); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		created, err := svc.CreateMessageTemplate(ctx, effectiveUserID(r, impSvc), &tmpl)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateTemplateHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /templates/{templateId}")
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

		if err := svc.UpdateMessageTemplate(ctx, chi.URLParam(r, "templateId"), fields); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteTemplateHandler(svc *service.CRMService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /templates/{templateId}")
		defer span.End()

		if err := svc.DeleteMessageTemplate(ctx, chi.URLParam(r, "templateId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
