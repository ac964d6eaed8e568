// Package graph wraps HTTP calls to the hosted GraphQL backend that owns
// all dashboard data. One shared client instance is constructed at
// startup and injected into the stores — there is no process-wide
// singleton to install.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mhalvorsen/coachdesk/internal/domain"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("graph")

// Client executes named GraphQL operations against the backend endpoint.
// Every call is a single attempt: transport errors and backend
// rejections are logged and re-thrown verbatim; the caller decides
// whether to fall back or propagate. No batching, no dedup, no caching.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	cb         *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewClient creates a backend client.
func NewClient(httpClient *http.Client, endpoint, apiKey string, cb *gobreaker.CircuitBreaker, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		apiKey:     apiKey,
		cb:         cb,
		logger:     logger,
	}
}

// request is the GraphQL HTTP envelope.
type request struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Error is one entry of a GraphQL response's errors list.
type Error struct {
	Message string   `json:"message"`
	Path    []string `json:"path"`
}

func (e *Error) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return e.Message + " " + strings.Join(e.Path, ".")
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []*Error        `json:"errors"`
}

// Query executes a named query operation and returns the raw data
// payload for the store layer to decode.
func (c *Client) Query(ctx context.Context, operation, doc string, vars map[string]any) (json.RawMessage, error) {
	return c.do(ctx, operation, doc, vars)
}

// Mutate executes a named mutation operation. GraphQL mutations travel
// over the same POST envelope as queries; the split exists so call
// sites read as what they are.
func (c *Client) Mutate(ctx context.Context, operation, doc string, vars map[string]any) (json.RawMessage, error) {
	return c.do(ctx, operation, doc, vars)
}

func (c *Client) do(ctx context.Context, operation, doc string, vars map[string]any) (json.RawMessage, error) {
	if c == nil || c.endpoint == "" {
		return nil, &domain.ErrNotConfigured{Component: "graph client"}
	}

	ctx, span := tracer.Start(ctx, "Graph."+operation)
	defer span.End()
	span.SetAttributes(attribute.String("graphql.operation", operation))

	body, err := json.Marshal(request{
		OperationName: operation,
		Query:         doc,
		Variables:     vars,
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", operation, err)
	}

	var data json.RawMessage
	_, cbErr := c.cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("graph: request failed",
				zap.String("operation", operation),
				zap.Error(err),
			)
			return nil, err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			c.logger.Error("graph: failed to read response body",
				zap.String("operation", operation),
				zap.Error(err),
			)
			return nil, err
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			c.logger.Warn("graph: non-2xx response",
				zap.String("operation", operation),
				zap.Int("status", resp.StatusCode),
				zap.String("body", string(raw)),
			)
			return nil, fmt.Errorf("backend returned status %d: %s", resp.StatusCode, string(raw))
		}

		var gqlResp response
		if err := json.Unmarshal(raw, &gqlResp); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", operation, err)
		}

		if len(gqlResp.Errors) > 0 {
			errs := make([]error, len(gqlResp.Errors))
			for i, e := range gqlResp.Errors {
				errs[i] = e
			}
			joined := errors.Join(errs...)
			c.logger.Warn("graph: operation rejected",
				zap.String("operation", operation),
				zap.Error(joined),
			)
			return nil, &domain.ErrBackend{Operation: operation, Err: joined}
		}

		c.logger.Debug("graph: operation OK",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
		)

		data = gqlResp.Data
		return nil, nil
	})

	if cbErr != nil {
		if errors.Is(cbErr, gobreaker.ErrOpenState) || errors.Is(cbErr, gobreaker.ErrTooManyRequests) {
			return nil, &domain.ErrCircuitOpen{Service: "backend"}
		}
		return nil, cbErr
	}

	return data, nil
}
