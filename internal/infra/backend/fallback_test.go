package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/infra/backend"
	"github.com/mhalvorsen/coachdesk/internal/infra/observability"

	"go.uber.org/zap"
)

// --- Mock transport ---

type graphCall struct {
	Operation string
	Doc       string
	Vars      map[string]any
}

type graphResult struct {
	Data json.RawMessage
	Err  error
}

// mockGraph replays a script of results, one per call, recording every
// call it sees.
type mockGraph struct {
	QueryCalls   []graphCall
	MutateCalls  []graphCall
	QueryScript  []graphResult
	MutateScript []graphResult
}

func (m *mockGraph) Query(_ context.Context, operation, doc string, vars map[string]any) (json.RawMessage, error) {
	m.QueryCalls = append(m.QueryCalls, graphCall{operation, doc, vars})
	if len(m.QueryScript) == 0 {
		return nil, errors.New("mock: query script exhausted")
	}
	r := m.QueryScript[0]
	m.QueryScript = m.QueryScript[1:]
	return r.Data, r.Err
}

func (m *mockGraph) Mutate(_ context.Context, operation, doc string, vars map[string]any) (json.RawMessage, error) {
	m.MutateCalls = append(m.MutateCalls, graphCall{operation, doc, vars})
	if len(m.MutateScript) == 0 {
		return nil, errors.New("mock: mutate script exhausted")
	}
	r := m.MutateScript[0]
	m.MutateScript = m.MutateScript[1:]
	return r.Data, r.Err
}

func newTestStore(g *mockGraph) *backend.Store {
	return backend.NewStore(g, observability.NewMetrics(), zap.NewNop())
}

// --- Filter strategy fallback ---

func TestListLeads_FirstStrategySucceeds(t *testing.T) {
	g := &mockGraph{QueryScript: []graphResult{
		{Data: json.RawMessage(`{"leads":{"items":[{"id":"l-1","name":"Acme Realty"}]}}`)},
	}}
	store := newTestStore(g)

	leads, err := store.ListLeads(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(leads) != 1 || leads[0].ID != "l-1" {
		t.Fatalf("unexpected leads %+v", leads)
	}
	if len(g.QueryCalls) != 1 {
		t.Fatalf("expected 1 query, got %d", len(g.QueryCalls))
	}
	filter := g.QueryCalls[0].Vars["filter"].(map[string]any)
	if _, ok := filter["user"]; !ok {
		t.Errorf("first attempt should use the user relation filter, got %v", filter)
	}
}

func TestListLeads_FallsThroughToColumnFilter(t *testing.T) {
	g := &mockGraph{QueryScript: []graphResult{
		{Err: errors.New("unknown relation: user")},
		{Data: json.RawMessage(`{"leads":{"items":[{"id":"l-2","name":"Old Schema Lead"}]}}`)},
	}}
	store := newTestStore(g)

	leads, err := store.ListLeads(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected fallback to succeed, got %v", err)
	}
	if len(leads) != 1 || leads[0].ID != "l-2" {
		t.Fatalf("unexpected leads %+v", leads)
	}
	if len(g.QueryCalls) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(g.QueryCalls))
	}
	filter := g.QueryCalls[1].Vars["filter"].(map[string]any)
	if _, ok := filter["userId"]; !ok {
		t.Errorf("second attempt should use the bare column filter, got %v", filter)
	}
}

func TestListLeads_AllStrategiesRejected(t *testing.T) {
	g := &mockGraph{QueryScript: []graphResult{
		{Err: errors.New("unknown relation: user")},
		{Err: errors.New("unknown column: userId")},
	}}
	store := newTestStore(g)

	_, err := store.ListLeads(context.Background(), "user-1")
	if err == nil {
		t.Fatal("expected error after exhausting strategies")
	}
	var mismatch *domain.ErrSchemaMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %T: %v", err, err)
	}
	if mismatch.Tried != 2 {
		t.Errorf("expected 2 strategies tried, got %d", mismatch.Tried)
	}
	// One attempt per strategy, never a second pass.
	if len(g.QueryCalls) != 2 {
		t.Errorf("expected exactly 2 queries, got %d", len(g.QueryCalls))
	}
}

func TestListLeads_DefaultsStatusAndTags(t *testing.T) {
	g := &mockGraph{QueryScript: []graphResult{
		{Data: json.RawMessage(`{"leads":{"items":[{"id":"l-3","name":"Bare Lead"}]}}`)},
	}}
	store := newTestStore(g)

	leads, err := store.ListLeads(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if leads[0].Status != domain.LeadStatusNew {
		t.Errorf("expected default status %q, got %q", domain.LeadStatusNew, leads[0].Status)
	}
	if leads[0].Tags == nil {
		t.Error("tags should never be nil")
	}
}

func TestListReports_FallsThroughToCreatorField(t *testing.T) {
	g := &mockGraph{QueryScript: []graphResult{
		{Err: errors.New("unknown relation: student")},
		{Err: errors.New("unknown relation: user")},
		{Data: json.RawMessage(`{"weeklyReports":{"items":[{"id":"r-1","weekEnding":"2025-06-07"}]}}`)},
	}}
	store := newTestStore(g)

	reports, err := store.ListReports(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected third strategy to succeed, got %v", err)
	}
	if len(reports) != 1 || reports[0].ID != "r-1" {
		t.Fatalf("unexpected reports %+v", reports)
	}
	if len(g.QueryCalls) != 3 {
		t.Fatalf("expected 3 queries, got %d", len(g.QueryCalls))
	}
	filter := g.QueryCalls[2].Vars["filter"].(map[string]any)
	if _, ok := filter["createdBy"]; !ok {
		t.Errorf("third attempt should use the creator field filter, got %v", filter)
	}
}

// --- In-memory last resort for reports ---

func TestListReports_InMemoryLastResort(t *testing.T) {
	table := `{"weeklyReports":{"items":[
		{"id":"r-1","weekEnding":"2025-06-07","user":{"id":"user-1"}},
		{"id":"r-2","weekEnding":"2025-06-14","student":{"id":"profile-9"}},
		{"id":"r-3","weekEnding":"2025-06-14","user":{"id":"someone-else"}}
	]}}`
	g := &mockGraph{QueryScript: []graphResult{
		{Err: errors.New("unknown relation: student")},
		{Err: errors.New("unknown relation: user")},
		{Err: errors.New("unknown column: createdBy")},
		{Data: json.RawMessage(table)},
	}}
	store := newTestStore(g)

	reports, err := store.ListReports(context.Background(), "user-1", "profile-9")
	if err != nil {
		t.Fatalf("expected in-memory fallback to succeed, got %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 matched reports, got %d", len(reports))
	}
	if reports[0].ID != "r-1" || reports[1].ID != "r-2" {
		t.Errorf("unexpected matches %+v", reports)
	}
	// Three strategy attempts plus one unfiltered fetch.
	if len(g.QueryCalls) != 4 {
		t.Fatalf("expected 4 queries, got %d", len(g.QueryCalls))
	}
}

func TestListReports_RequiresOwner(t *testing.T) {
	store := newTestStore(&mockGraph{})

	_, err := store.ListReports(context.Background())
	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// --- Update shape fallback ---

func TestUpdateLead_ShapeFallthrough(t *testing.T) {
	g := &mockGraph{
		MutateScript: []graphResult{
			{Err: errors.New("unknown argument: data.id")},
			{Err: errors.New("unknown argument: id")},
			{Data: json.RawMessage(`{"leadUpdate":{"id":"l-1"}}`)},
		},
		QueryScript: []graphResult{
			{Data: json.RawMessage(`{"lead":{"id":"l-1","name":"Acme Realty","status":"contacted"}}`)},
		},
	}
	store := newTestStore(g)

	lead, err := store.UpdateLead(context.Background(), "l-1", map[string]any{"status": "contacted"})
	if err != nil {
		t.Fatalf("expected update to succeed on third shape, got %v", err)
	}
	if lead.Status != "contacted" {
		t.Errorf("expected re-fetched status, got %q", lead.Status)
	}
	if len(g.MutateCalls) != 3 {
		t.Fatalf("expected 3 mutation attempts, got %d", len(g.MutateCalls))
	}
	if !strings.Contains(g.MutateCalls[2].Doc, "fields: $fields") {
		t.Errorf("third attempt should be the direct shape, doc: %s", g.MutateCalls[2].Doc)
	}
}

func TestUpdateLead_AllShapesRejected(t *testing.T) {
	g := &mockGraph{MutateScript: []graphResult{
		{Err: errors.New("rejected")},
		{Err: errors.New("rejected")},
		{Err: errors.New("rejected")},
		{Err: errors.New("rejected")},
	}}
	store := newTestStore(g)

	_, err := store.UpdateLead(context.Background(), "l-1", map[string]any{"status": "contacted"})
	var mismatch *domain.ErrSchemaMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	if mismatch.Tried != 4 {
		t.Errorf("expected 4 shapes tried, got %d", mismatch.Tried)
	}
}

// --- Create payloads ---

func TestCreateReport_RecomputesNetProfit(t *testing.T) {
	g := &mockGraph{MutateScript: []graphResult{
		{Data: json.RawMessage(`{"weeklyReportCreate":{"id":"r-1","netProfit":2050.25}}`)},
	}}
	store := newTestStore(g)

	_, err := store.CreateReport(context.Background(), &domain.CreateReportRequest{
		WeekEnding:  "2025-06-14",
		Revenue:     2500.50,
		Expenses:    300.25,
		EditingCost: 150.00,
		UserID:      "user-1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	data := g.MutateCalls[0].Vars["data"].(map[string]any)
	if got := data["netProfit"].(float64); got != 2050.25 {
		t.Errorf("expected netProfit 2050.25, got %v", got)
	}
	if _, ok := data["student"]; ok {
		t.Error("student connection must be omitted when no profile id is supplied")
	}
	if _, ok := data["user"]; !ok {
		t.Error("user connection must always be present")
	}
}
