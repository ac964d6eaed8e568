// Package backend implements the entity access operations against the
// graph backend: one set of list/get/create/update/delete methods per
// entity, each building a filter or connection payload, delegating to
// the transport and passing the result through a shape transformer.
package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/infra/observability"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("backend")

// GraphClient is the transport the stores delegate to.
type GraphClient interface {
	Query(ctx context.Context, operation, doc string, vars map[string]any) (json.RawMessage, error)
	Mutate(ctx context.Context, operation, doc string, vars map[string]any) (json.RawMessage, error)
}

// Store implements all entity access operations over one shared
// transport. It satisfies the per-entity store interfaces in
// internal/port.
type Store struct {
	g       GraphClient
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewStore creates the backend store.
func NewStore(g GraphClient, metrics *observability.Metrics, logger *zap.Logger) *Store {
	return &Store{g: g, logger: logger, metrics: metrics}
}

// connect builds a relation-connect payload: {"connect": {"id": id}}.
func connect(id string) map[string]any {
	return map[string]any{"connect": map[string]any{"id": id}}
}

// disconnect builds a relation-disconnect payload.
func disconnect(id string) map[string]any {
	return map[string]any{"disconnect": map[string]any{"id": id}}
}

// eq builds an equality filter leaf: {"equals": v}.
func eq(v any) map[string]any {
	return map[string]any{"equals": v}
}

// relEq builds a nested relation-id equality filter:
// {"<relation>": {"id": {"equals": id}}}.
func relEq(relation, id string) map[string]any {
	return map[string]any{relation: map[string]any{"id": eq(id)}}
}

// decodeList unwraps {"<key>": {"items": [...]}} into a raw slice.
func decodeList[T any](data json.RawMessage, key string) ([]T, error) {
	var envelope map[string]struct {
		Items []T `json:"items"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode %s list: %w", key, err)
	}
	return envelope[key].Items, nil
}

// decodeOne unwraps {"<key>": {...}} into a single raw record. Returns
// ErrNotFound when the backend returned null for the key.
func decodeOne[T any](data json.RawMessage, key, id string) (*T, error) {
	var envelope map[string]*T
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	rec := envelope[key]
	if rec == nil {
		return nil, &domain.ErrNotFound{Resource: key, ID: id}
	}
	return rec, nil
}
