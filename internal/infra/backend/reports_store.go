package backend

import (
	"context"
	"fmt"

	"github.com/mhalvorsen/coachdesk/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Weekly reports
//
// The report table has drifted the most: old records connect to the
// user, newer ones to the student profile, and some carry only a bare
// creator field. Owner-scoped listing therefore walks an ordered
// strategy list, with a fetch-all in-memory match as the last resort.
// ============================================================

const reportFields = `id weekEnding revenue expenses editingCost netProfit
	shoots newClients uniqueClients avgOrderValue createdAt
	user { id } student { id }`

const (
	reportsListDoc = `query WeeklyReports($filter: JSON) { weeklyReports(filter: $filter) { items { ` + reportFields + ` } } }`

	reportGetDoc = `query WeeklyReport($id: ID!) { weeklyReport(id: $id) { ` + reportFields + ` } }`

	reportCreateDoc = `mutation WeeklyReportCreate($data: JSON!) { weeklyReportCreate(data: $data) { ` + reportFields + ` } }`

	reportDeleteDoc = `mutation WeeklyReportDelete($id: ID!) { weeklyReportDelete(id: $id) { success } }`
)

// reportFilterStrategies is the ordered candidate list for scoping the
// report query to one owner: the current profile relation first, the
// legacy user relation second, the bare creator column last.
var reportFilterStrategies = []FilterStrategy{
	{Name: "student-relation", Build: func(ownerID string) map[string]any {
		return relEq("student", ownerID)
	}},
	{Name: "user-relation", Build: func(ownerID string) map[string]any {
		return relEq("user", ownerID)
	}},
	{Name: "creator-field", Build: func(ownerID string) map[string]any {
		return map[string]any{"createdBy": eq(ownerID)}
	}},
}

type rawReport struct {
	ID            string  `json:"id"`
	WeekEnding    string  `json:"weekEnding"`
	Revenue       float64 `json:"revenue"`
	Expenses      float64 `json:"expenses"`
	EditingCost   float64 `json:"editingCost"`
	NetProfit     float64 `json:"netProfit"`
	Shoots        int     `json:"shoots"`
	NewClients    int     `json:"newClients"`
	UniqueClients int     `json:"uniqueClients"`
	AvgOrderValue float64 `json:"avgOrderValue"`
	CreatedAt     string  `json:"createdAt"`
	User          *struct {
		ID string `json:"id"`
	} `json:"user"`
	Student *struct {
		ID string `json:"id"`
	} `json:"student"`
}

func transformReport(r rawReport) domain.WeeklyReport {
	rep := domain.WeeklyReport{
		ID:            r.ID,
		WeekEnding:    r.WeekEnding,
		Revenue:       r.Revenue,
		Expenses:      r.Expenses,
		EditingCost:   r.EditingCost,
		NetProfit:     r.NetProfit,
		Shoots:        r.Shoots,
		NewClients:    r.NewClients,
		UniqueClients: r.UniqueClients,
		AvgOrderValue: r.AvgOrderValue,
		CreatedAt:     r.CreatedAt,
	}
	if r.User != nil {
		rep.UserID = r.User.ID
	}
	if r.Student != nil {
		rep.StudentID = r.Student.ID
	}
	return rep
}

// ownedBy reports whether any of the report's linkage fields carry one
// of the candidate owner ids. Used by the in-memory last resort, where
// the owner may be known by user id or profile id.
func (r rawReport) ownedBy(ids ...string) bool {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if r.User != nil && r.User.ID == id {
			return true
		}
		if r.Student != nil && r.Student.ID == id {
			return true
		}
	}
	return false
}

// ListReports fetches the reports owned by one student, identified by
// any of the candidate ids (user id, profile id). Filter strategies are
// tried in order; when the backend rejects every server-side filter the
// full table is fetched once and matched in memory.
func (s *Store) ListReports(ctx context.Context, ownerIDs ...string) ([]domain.WeeklyReport, error) {
	ctx, span := tracer.Start(ctx, "Store.ListReports")
	defer span.End()

	if len(ownerIDs) == 0 {
		return nil, &domain.ErrValidation{Field: "owner", Message: "owner id required"}
	}

	data, err := s.listWithFallback(ctx, "weeklyReport", "WeeklyReports", reportsListDoc, reportFilterStrategies, ownerIDs[0])
	if err == nil {
		rows, derr := decodeList[rawReport](data, "weeklyReports")
		if derr != nil {
			return nil, derr
		}
		reports := make([]domain.WeeklyReport, 0, len(rows))
		for _, r := range rows {
			reports = append(reports, transformReport(r))
		}
		return reports, nil
	}

	s.logger.Warn("all report filter strategies rejected, fetching unfiltered",
		zap.Strings("owner_ids", ownerIDs),
		zap.Error(err),
	)
	return s.listReportsInMemory(ctx, ownerIDs)
}

// ListAllReports fetches the whole report table, for admin views and
// exports.
func (s *Store) ListAllReports(ctx context.Context) ([]domain.WeeklyReport, error) {
	ctx, span := tracer.Start(ctx, "Store.ListAllReports")
	defer span.End()

	rows, err := s.fetchAllReports(ctx)
	if err != nil {
		return nil, err
	}
	reports := make([]domain.WeeklyReport, 0, len(rows))
	for _, r := range rows {
		reports = append(reports, transformReport(r))
	}
	return reports, nil
}

func (s *Store) listReportsInMemory(ctx context.Context, ownerIDs []string) ([]domain.WeeklyReport, error) {
	rows, err := s.fetchAllReports(ctx)
	if err != nil {
		return nil, err
	}

	s.metrics.IncrFilterStrategy("weeklyReport", "in-memory")

	reports := make([]domain.WeeklyReport, 0)
	for _, r := range rows {
		if r.ownedBy(ownerIDs...) {
			reports = append(reports, transformReport(r))
		}
	}
	return reports, nil
}

func (s *Store) fetchAllReports(ctx context.Context) ([]rawReport, error) {
	data, err := s.g.Query(ctx, "WeeklyReports", reportsListDoc, map[string]any{"filter": map[string]any{}})
	if err != nil {
		return nil, err
	}
	return decodeList[rawReport](data, "weeklyReports")
}

// GetReport fetches one report by id.
func (s *Store) GetReport(ctx context.Context, reportID string) (*domain.WeeklyReport, error) {
	ctx, span := tracer.Start(ctx, "Store.GetReport")
	defer span.End()

	data, err := s.g.Query(ctx, "WeeklyReport", reportGetDoc, map[string]any{"id": reportID})
	if err != nil {
		return nil, err
	}

	raw, err := decodeOne[rawReport](data, "weeklyReport", reportID)
	if err != nil {
		return nil, err
	}
	rep := transformReport(*raw)
	return &rep, nil
}

// CreateReport creates a weekly report. Net profit is recomputed here
// from the component figures; a client-supplied value is ignored. The
// user relation is always connected, the student relation only when the
// caller resolved a profile id.
func (s *Store) CreateReport(ctx context.Context, req *domain.CreateReportRequest) (*domain.WeeklyReport, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateReport")
	defer span.End()

	data := map[string]any{
		"id":            uuid.New().String(),
		"weekEnding":    req.WeekEnding,
		"revenue":       req.Revenue,
		"expenses":      req.Expenses,
		"editingCost":   req.EditingCost,
		"netProfit":     domain.ComputeNetProfit(req.Revenue, req.Expenses, req.EditingCost),
		"shoots":        req.Shoots,
		"newClients":    req.NewClients,
		"uniqueClients": req.UniqueClients,
		"avgOrderValue": req.AvgOrderValue,
		"user":          connect(req.UserID),
	}
	if req.StudentID != "" {
		data["student"] = connect(req.StudentID)
	}

	resp, err := s.g.Mutate(ctx, "WeeklyReportCreate", reportCreateDoc, map[string]any{"data": data})
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	raw, err := decodeOne[rawReport](resp, "weeklyReportCreate", req.UserID)
	if err != nil {
		return nil, err
	}
	rep := transformReport(*raw)
	return &rep, nil
}

// UpdateReport patches report fields through the drift-tolerant shapes
// and re-fetches. Callers changing any money figure must also pass the
// recomputed netProfit.
func (s *Store) UpdateReport(ctx context.Context, reportID string, fields map[string]any) (*domain.WeeklyReport, error) {
	ctx, span := tracer.Start(ctx, "Store.UpdateReport")
	defer span.End()

	if err := s.mutateWithShapes(ctx, "weeklyReport", "WeeklyReportUpdate", updateShapes("WeeklyReportUpdate", "weeklyReportUpdate"), reportID, fields); err != nil {
		return nil, err
	}
	return s.GetReport(ctx, reportID)
}

// DeleteReport deletes a report record.
func (s *Store) DeleteReport(ctx context.Context, reportID string) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteReport")
	defer span.End()

	_, err := s.g.Mutate(ctx, "WeeklyReportDelete", reportDeleteDoc, map[string]any{"id": reportID})
	return err
}
