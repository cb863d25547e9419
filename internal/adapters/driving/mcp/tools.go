package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

// Defaults applied when a tool call omits the optional scope fields.
const (
	defaultHours = 4.0
	defaultLimit = 30
)

// SearchLogsInput is the input schema for the search_logs tool.
type SearchLogsInput struct {
	Query string  `json:"query" jsonschema:"search query using the web UI syntax, e.g. 'service:api status:error'"`
	Hours float64 `json:"hours,omitempty" jsonschema:"lookback window in hours, fractional allowed (default 4)"`
	Limit int     `json:"limit,omitempty" jsonschema:"maximum number of events to return (default 30)"`
}

// RumSearchInput is the input schema for the rum_search tool.
type RumSearchInput struct {
	Query     string  `json:"query,omitempty" jsonschema:"search query scoped to RUM attributes"`
	EventType string  `json:"event_type,omitempty" jsonschema:"RUM event type filter: session, view, action, resource, error or long_task"`
	Hours     float64 `json:"hours,omitempty" jsonschema:"lookback window in hours (default 4)"`
	Limit     int     `json:"limit,omitempty" jsonschema:"maximum number of events to return (default 30)"`
}

// TraceLogsInput is the input schema for the trace_logs tool.
type TraceLogsInput struct {
	TraceID string  `json:"trace_id" jsonschema:"the distributed trace identifier to correlate"`
	Hours   float64 `json:"hours,omitempty" jsonschema:"lookback window in hours (default 4)"`
	Limit   int     `json:"limit,omitempty" jsonschema:"maximum number of events to return (default 30)"`
}

// EventsOutput is the shared output schema for event-listing tools.
type EventsOutput struct {
	Events []domain.NormalizedEvent `json:"events"`
	Count  int                      `json:"count"`
}

// TopValuesInput is the input schema for the top_values tool.
type TopValuesInput struct {
	Field string  `json:"field" jsonschema:"the field to rank values of, e.g. 'service' or '@http.status_code'"`
	Query string  `json:"query,omitempty" jsonschema:"search query narrowing which events are counted"`
	Rum   bool    `json:"rum,omitempty" jsonschema:"aggregate over RUM events instead of logs"`
	Hours float64 `json:"hours,omitempty" jsonschema:"lookback window in hours (default 4)"`
	Limit int     `json:"limit,omitempty" jsonschema:"maximum number of ranked values (default 30)"`
}

// TopValuesOutput is the output schema for the top_values tool. Values keep
// the backend's ranking order.
type TopValuesOutput struct {
	Field  string              `json:"field"`
	Values []domain.FieldCount `json:"values"`
}

// FetchEventInput is the input schema for the fetch_event tool.
type FetchEventInput struct {
	CompoundID string `json:"compound_id" jsonschema:"the compound identifier from a previous search result"`
	Rum        bool   `json:"rum,omitempty" jsonschema:"the event is a RUM event rather than a log"`
}

// RawOutput wraps an undecoded backend response.
type RawOutput struct {
	Result json.RawMessage `json:"result"`
}

// SearchFieldsInput is the input schema for the search_fields tool.
type SearchFieldsInput struct {
	Keyword string `json:"keyword,omitempty" jsonschema:"substring to match against field names; empty lists all"`
	Rum     bool   `json:"rum,omitempty" jsonschema:"search the RUM field catalogue instead of logs"`
}

// FieldValuesInput is the input schema for the field_values tool.
type FieldValuesInput struct {
	Field string  `json:"field" jsonschema:"the field to list observed values of"`
	Query string  `json:"query,omitempty" jsonschema:"search query narrowing the events considered"`
	Rum   bool    `json:"rum,omitempty" jsonschema:"inspect RUM events instead of logs"`
	Hours float64 `json:"hours,omitempty" jsonschema:"lookback window in hours (default 4)"`
}

// AuthStatusOutput is the output schema for the auth_status tool.
type AuthStatusOutput struct {
	Configured bool    `json:"configured"`
	Accepted   bool    `json:"accepted"`
	AgeHours   float64 `json:"age_hours,omitempty"`
	Detail     string  `json:"detail,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_logs",
		Description: "Search backend log events and return simplified results with compound IDs for follow-up fetches",
	}, s.handleSearchLogs)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rum_search",
		Description: "Search frontend Real User Monitoring events, optionally filtered to one event type",
	}, s.handleRumSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "trace_logs",
		Description: "List the log events correlated with one distributed trace",
	}, s.handleTraceLogs)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "top_values",
		Description: "Rank the most frequent values of a field over matching events",
	}, s.handleTopValues)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fetch_event",
		Description: "Fetch the complete record behind a compound ID returned by a search",
	}, s.handleFetchEvent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_fields",
		Description: "Search the queryable field catalogue by name",
	}, s.handleSearchFields)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "field_values",
		Description: "List the observed values of one field within the window",
	}, s.handleFieldValues)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "auth_status",
		Description: "Report whether a session credential is configured and still accepted by the backend",
	}, s.handleAuthStatus)
}

func sourceFor(rum bool) domain.DataSource {
	if rum {
		return domain.SourceRUM
	}
	return domain.SourceLogs
}

func orDefault(hours float64) float64 {
	if hours <= 0 {
		return defaultHours
	}
	return hours
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return limit
}

func (s *Server) handleSearchLogs(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchLogsInput,
) (*mcp.CallToolResult, EventsOutput, error) {
	q := domain.Query{
		Text:   input.Query,
		Source: domain.SourceLogs,
		Hours:  orDefault(input.Hours),
		Limit:  limitOrDefault(input.Limit),
	}

	events, err := s.ports.Query.Search(ctx, q, "")
	if err != nil {
		return nil, EventsOutput{}, toolError(err)
	}
	return nil, EventsOutput{Events: events, Count: len(events)}, nil
}

func (s *Server) handleRumSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RumSearchInput,
) (*mcp.CallToolResult, EventsOutput, error) {
	q := domain.Query{
		Text:    input.Query,
		Source:  domain.SourceRUM,
		RumType: domain.RumEventType(input.EventType),
		Hours:   orDefault(input.Hours),
		Limit:   limitOrDefault(input.Limit),
	}

	events, err := s.ports.Query.Search(ctx, q, "")
	if err != nil {
		return nil, EventsOutput{}, toolError(err)
	}
	return nil, EventsOutput{Events: events, Count: len(events)}, nil
}

func (s *Server) handleTraceLogs(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TraceLogsInput,
) (*mcp.CallToolResult, EventsOutput, error) {
	events, err := s.ports.Query.TraceLogs(ctx, input.TraceID, orDefault(input.Hours), limitOrDefault(input.Limit))
	if err != nil {
		return nil, EventsOutput{}, toolError(err)
	}
	return nil, EventsOutput{Events: events, Count: len(events)}, nil
}

func (s *Server) handleTopValues(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TopValuesInput,
) (*mcp.CallToolResult, TopValuesOutput, error) {
	q := domain.Query{
		Text:             input.Query,
		Source:           sourceFor(input.Rum),
		Hours:            orDefault(input.Hours),
		Limit:            limitOrDefault(input.Limit),
		AggregationField: input.Field,
	}

	values, err := s.ports.Query.Aggregate(ctx, q)
	if err != nil {
		return nil, TopValuesOutput{}, toolError(err)
	}
	return nil, TopValuesOutput{Field: input.Field, Values: values}, nil
}

func (s *Server) handleFetchEvent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FetchEventInput,
) (*mcp.CallToolResult, RawOutput, error) {
	raw, err := s.ports.Query.FetchOne(ctx, sourceFor(input.Rum), input.CompoundID)
	if err != nil {
		return nil, RawOutput{}, toolError(err)
	}
	return nil, RawOutput{Result: raw}, nil
}

func (s *Server) handleSearchFields(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchFieldsInput,
) (*mcp.CallToolResult, RawOutput, error) {
	raw, err := s.ports.Query.SearchFields(ctx, sourceFor(input.Rum), input.Keyword)
	if err != nil {
		return nil, RawOutput{}, toolError(err)
	}
	return nil, RawOutput{Result: raw}, nil
}

func (s *Server) handleFieldValues(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FieldValuesInput,
) (*mcp.CallToolResult, RawOutput, error) {
	raw, err := s.ports.Query.FieldValues(ctx, sourceFor(input.Rum), input.Field, input.Query, orDefault(input.Hours))
	if err != nil {
		return nil, RawOutput{}, toolError(err)
	}
	return nil, RawOutput{Result: raw}, nil
}

func (s *Server) handleAuthStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, AuthStatusOutput, error) {
	out := AuthStatusOutput{Configured: s.ports.Credential != nil}
	if !out.Configured {
		out.Detail = "no session credential configured; run 'ddwatch auth set'"
		return nil, out, nil
	}

	if !s.ports.Credential.CapturedAt.IsZero() {
		out.AgeHours = s.ports.Credential.Age().Hours()
	}

	if err := s.ports.Query.TestConnection(ctx); err != nil {
		out.Detail = toolError(err).Error()
		return nil, out, nil
	}

	out.Accepted = true
	return nil, out, nil
}
