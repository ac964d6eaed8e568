package graph_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/infra/graph"
	"github.com/mhalvorsen/coachdesk/internal/infra/resilience"

	"go.uber.org/zap"
)

func newTestClient(endpoint string) *graph.Client {
	cb := resilience.NewCircuitBreaker("test-backend")
	return graph.NewClient(http.DefaultClient, endpoint, "test-api-key", cb, zap.NewNop())
}

func TestQuery_Success(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"users":[{"id":"user-1"}]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	data, err := client.Query(context.Background(), "ListUsers", "query ListUsers { users { id } }", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var payload struct {
		Users []struct{ ID string } `json:"users"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decode data payload: %v", err)
	}
	if len(payload.Users) != 1 || payload.Users[0].ID != "user-1" {
		t.Errorf("unexpected payload %+v", payload)
	}

	if gotAuth != "Bearer test-api-key" {
		t.Errorf("expected bearer auth header, got %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("expected json content type, got %q", gotContentType)
	}
	if gotBody["operationName"] != "ListUsers" {
		t.Errorf("expected operation name in the envelope, got %v", gotBody["operationName"])
	}
	if q, _ := gotBody["query"].(string); !strings.Contains(q, "users") {
		t.Errorf("expected the query document in the envelope, got %q", q)
	}
}

func TestQuery_GraphQLErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors":[{"message":"Cannot query field \"user\" on type \"Query\"","path":["leads"]}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Query(context.Background(), "ListLeads", "query ListLeads { leads { id } }", nil)

	var backendErr *domain.ErrBackend
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
	if backendErr.Operation != "ListLeads" {
		t.Errorf("expected operation on the error, got %q", backendErr.Operation)
	}
	if !strings.Contains(backendErr.Err.Error(), "Cannot query field") {
		t.Errorf("expected backend message preserved, got %v", backendErr.Err)
	}
}

func TestQuery_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Query(context.Background(), "ListUsers", "query ListUsers { users { id } }", nil)
	if err == nil {
		t.Fatal("expected error on non-2xx status")
	}
	if !strings.Contains(err.Error(), "status 502") {
		t.Errorf("expected the status code in the error, got %v", err)
	}
}

func TestQuery_NotConfigured(t *testing.T) {
	client := newTestClient("")

	_, err := client.Query(context.Background(), "ListUsers", "query ListUsers { users { id } }", nil)
	var notConfigured *domain.ErrNotConfigured
	if !errors.As(err, &notConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestMutate_PassesVariables(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"updateUser":{"id":"user-1"}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Mutate(context.Background(), "UpdateUser", "mutation UpdateUser($id: ID!) { updateUser(id: $id) { id } }", map[string]any{"id": "user-1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	vars, _ := gotBody["variables"].(map[string]any)
	if vars["id"] != "user-1" {
		t.Errorf("expected variables in the envelope, got %v", gotBody["variables"])
	}
}
