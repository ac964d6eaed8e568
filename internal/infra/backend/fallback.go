package backend

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mhalvorsen/coachdesk/internal/domain"

	"go.uber.org/zap"
)

// Schema drift: older and newer records in the backend are linked
// through different relation fields, and the backend accepts different
// update call shapes inconsistently across entity types. Reads and
// updates therefore try an explicit, ordered list of shapes — each
// attempted once, in sequence. A failed shape is expected and moves to
// the next candidate; this is not transient-failure retry and no shape
// is ever attempted twice.

// FilterStrategy is one candidate way to scope a list query to an owner.
type FilterStrategy struct {
	Name  string
	Build func(ownerID string) map[string]any
}

// listWithFallback runs the strategies in order against the same query
// document and returns the first successful payload, recording which
// strategy won. Exhausting every strategy returns ErrSchemaMismatch so
// the caller can decide on a last-resort in-memory filter.
func (s *Store) listWithFallback(ctx context.Context, entity, operation, doc string, strategies []FilterStrategy, ownerID string) (json.RawMessage, error) {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration(operation, time.Since(start)) }()

	var lastErr error
	for _, strat := range strategies {
		data, err := s.g.Query(ctx, operation, doc, map[string]any{
			"filter": strat.Build(ownerID),
		})
		if err == nil {
			s.logger.Debug("list filter strategy succeeded",
				zap.String("entity", entity),
				zap.String("strategy", strat.Name),
			)
			s.metrics.IncrFilterStrategy(entity, strat.Name)
			return data, nil
		}

		s.logger.Warn("list filter strategy rejected, trying next",
			zap.String("entity", entity),
			zap.String("strategy", strat.Name),
			zap.Error(err),
		)
		lastErr = err
	}

	s.metrics.IncrBackendError(operation)
	return nil, &domain.ErrSchemaMismatch{Entity: entity, Tried: len(strategies), Last: lastErr}
}

// UpdateShape is one candidate mutation call shape for an entity update.
type UpdateShape struct {
	Name  string
	Doc   string
	Build func(id string, fields map[string]any) map[string]any
}

// updateShapes are the four shapes seen across backend entity types,
// tried in order: id inside data, id as its own variable, direct
// field spread, and filter-based with an explicit set wrapper.
func updateShapes(operation, recordKey string) []UpdateShape {
	return []UpdateShape{
		{
			Name: "id-only",
			Doc:  "mutation " + operation + "($data: JSON!) { " + recordKey + "(data: $data) { id } }",
			Build: func(id string, fields map[string]any) map[string]any {
				data := map[string]any{"id": id}
				for k, v := range fields {
					data[k] = v
				}
				return map[string]any{"data": data}
			},
		},
		{
			Name: "simple",
			Doc:  "mutation " + operation + "($id: ID!, $data: JSON!) { " + recordKey + "(id: $id, data: $data) { id } }",
			Build: func(id string, fields map[string]any) map[string]any {
				return map[string]any{"id": id, "data": fields}
			},
		},
		{
			Name: "direct",
			Doc:  "mutation " + operation + "($id: ID!, $fields: JSON!) { " + recordKey + "(id: $id, fields: $fields) { id } }",
			Build: func(id string, fields map[string]any) map[string]any {
				return map[string]any{"id": id, "fields": fields}
			},
		},
		{
			Name: "filter-set",
			Doc:  "mutation " + operation + "($filter: JSON!, $data: JSON!) { " + recordKey + "(filter: $filter, data: $data) { id } }",
			Build: func(id string, fields map[string]any) map[string]any {
				return map[string]any{
					"filter": map[string]any{"id": eq(id)},
					"data":   map[string]any{"set": fields},
				}
			},
		},
	}
}

// mutateWithShapes tries each update shape until the backend accepts
// one. Each failure is logged and the next shape tried; exhausting all
// shapes propagates the final error.
func (s *Store) mutateWithShapes(ctx context.Context, entity, operation string, shapes []UpdateShape, id string, fields map[string]any) error {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration(operation, time.Since(start)) }()

	var lastErr error
	for _, shape := range shapes {
		_, err := s.g.Mutate(ctx, operation, shape.Doc, shape.Build(id, fields))
		if err == nil {
			s.logger.Debug("update shape accepted",
				zap.String("entity", entity),
				zap.String("shape", shape.Name),
			)
			s.metrics.IncrUpdateShape(entity, shape.Name)
			return nil
		}

		s.logger.Warn("update shape rejected, trying next",
			zap.String("entity", entity),
			zap.String("shape", shape.Name),
			zap.Error(err),
		)
		lastErr = err
	}

	s.metrics.IncrBackendError(operation)
	return &domain.ErrSchemaMismatch{Entity: entity, Tried: len(shapes), Last: lastErr}
}
