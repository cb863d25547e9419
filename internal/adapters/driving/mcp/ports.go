package mcp

import (
	"context"
	"encoding/json"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

// QueryService is the query surface the MCP tools drive. Satisfied by
// *datadog.Client; narrowed to an interface here so tool handlers can be
// tested against a mock.
type QueryService interface {
	Search(ctx context.Context, q domain.Query, profile string) ([]domain.NormalizedEvent, error)
	TraceLogs(ctx context.Context, traceID string, hours float64, limit int) ([]domain.NormalizedEvent, error)
	Aggregate(ctx context.Context, q domain.Query) ([]domain.FieldCount, error)
	FetchOne(ctx context.Context, source domain.DataSource, compoundID string) (json.RawMessage, error)
	SearchFields(ctx context.Context, source domain.DataSource, keyword string) (json.RawMessage, error)
	FieldValues(ctx context.Context, source domain.DataSource, field, queryText string, hours float64) (json.RawMessage, error)
	TestConnection(ctx context.Context) error
}

// Ports aggregates the dependencies the MCP server needs. A single
// injection point keeps command wiring in one place.
type Ports struct {
	// Query executes searches against the observability backend.
	Query QueryService

	// Credential is the captured session, used by the auth-status tool to
	// report its age. May be nil when no credential is configured.
	Credential *domain.Credential
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
