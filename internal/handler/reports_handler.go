package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/export"
	"github.com/mhalvorsen/coachdesk/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Weekly report handlers
// ============================================================

func listReportsHandler(svc *service.ReportService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /reports")
		defer span.End()

		reports, err := svc.ListForUser(ctx, effectiveUserID(r, impSvc))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, reports)
	}
}

func getReportHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /reports/{reportId}")
		defer span.End()

		report, err := svc.Get(ctx, chi.URLParam(r, "reportId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func createReportHandler(svc *service.ReportService, actSvc *service.ActivityService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /reports")
		defer span.End()

		var req domain.CreateReportRequest
		if err := decodeBody(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		req.UserID = effectiveUserID(r, impSvc)

		report, err := svc.Create(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		actSvc.Record(req.UserID, "report_created", "Weekly report for "+report.WeekEnding)
		writeJSON(w, http.StatusCreated, report)
	}
}

func updateReportHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /reports/{reportId}")
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

		report, err := svc.Update(ctx, chi.URLParam(r, "reportId"), fields)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func deleteReportHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /reports/{reportId}")
		defer span.End()

		if err := svc.Delete(ctx, chi.URLParam(r, "reportId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// exportReportsHandler streams the caller's reports as an Excel file.
// Privileged callers exporting without a user_id scope get the whole
// table.
func exportReportsHandler(svc *service.ReportService, exporter *export.ReportExporter, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /reports/export")
		defer span.End()

		var (
			reports []domain.WeeklyReport
			err     error
		)
		wholeTable := privileged(RoleFromContext(ctx)) &&
			r.URL.Query().Get("user_id") == "" &&
			impSvc.Current(UserIDFromContext(ctx)) == nil
		if wholeTable {
			reports, err = svc.ListAll(ctx)
		} else {
			reports, err = svc.ListForUser(ctx, effectiveUserID(r, impSvc))
		}
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		data, err := exporter.ReportsWorkbook(ctx, reports)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		filename := fmt.Sprintf("weekly_reports_%s.xlsx", time.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}
