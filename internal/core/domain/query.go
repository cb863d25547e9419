package domain

import (
	"fmt"
	"time"
)

// DataSource selects which telemetry category a query targets. It changes
// both the endpoint (`type=` query parameter) and the field semantics.
type DataSource string

const (
	// SourceLogs targets backend log events.
	SourceLogs DataSource = "logs"

	// SourceRUM targets frontend Real User Monitoring events.
	SourceRUM DataSource = "rum"
)

// Valid reports whether the data source is a known value.
func (s DataSource) Valid() bool {
	return s == SourceLogs || s == SourceRUM
}

// RumEventType filters RUM queries to one event category. The filter is
// expressed as a `@type:<value>` prefix on the query text.
type RumEventType string

// RUM event types as the backend names them.
const (
	RumSession  RumEventType = "session"
	RumView     RumEventType = "view"
	RumAction   RumEventType = "action"
	RumResource RumEventType = "resource"
	RumError    RumEventType = "error"
	RumLongTask RumEventType = "long_task"
)

// SortOrder is the time sort direction for list queries.
type SortOrder string

const (
	// SortDesc returns newest events first. This is the backend default.
	SortDesc SortOrder = "desc"

	// SortAsc returns oldest events first.
	SortAsc SortOrder = "asc"
)

// Query is a logical search before request building.
type Query struct {
	// Text is the free-text search query, same syntax as the web UI.
	Text string

	// Source selects logs or RUM.
	Source DataSource

	// Hours is the lookback window size. Must be positive; fractional
	// values are allowed (0.5 = 30 minutes).
	Hours float64

	// Limit is the maximum events per page. Must be positive.
	Limit int

	// Sort is the time ordering. Empty defaults to SortDesc.
	Sort SortOrder

	// AggregationField is the group-by field for aggregation queries.
	// Required for aggregations and forbidden otherwise.
	AggregationField string

	// RumType optionally narrows RUM queries to one event category.
	// Only meaningful when Source is SourceRUM.
	RumType RumEventType
}

// Validate checks the query invariants shared by all operations.
// Aggregation-specific rules are enforced by ValidateAggregation.
func (q *Query) Validate() error {
	if !q.Source.Valid() {
		return fmt.Errorf("%w: unknown data source %q", ErrInvalidQuery, q.Source)
	}
	if q.Hours <= 0 {
		return fmt.Errorf("%w: hours must be positive, got %v", ErrInvalidQuery, q.Hours)
	}
	if q.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidQuery, q.Limit)
	}
	if q.Sort != "" && q.Sort != SortAsc && q.Sort != SortDesc {
		return fmt.Errorf("%w: unknown sort order %q", ErrInvalidQuery, q.Sort)
	}
	return nil
}

// ValidateList checks the invariants for list/stream queries, where an
// aggregation field must not be set.
func (q *Query) ValidateList() error {
	if err := q.Validate(); err != nil {
		return err
	}
	if q.AggregationField != "" {
		return fmt.Errorf("%w: aggregation field is only valid for aggregation queries", ErrInvalidQuery)
	}
	return nil
}

// ValidateAggregation checks the invariants for aggregation queries, where
// a group-by field is mandatory.
func (q *Query) ValidateAggregation() error {
	if err := q.Validate(); err != nil {
		return err
	}
	if q.AggregationField == "" {
		return fmt.Errorf("%w: aggregation requires a field name", ErrInvalidQuery)
	}
	return nil
}

// EffectiveSort returns the sort order with the default applied.
func (q *Query) EffectiveSort() SortOrder {
	if q.Sort == "" {
		return SortDesc
	}
	return q.Sort
}

// TimeRange is an absolute query window in epoch milliseconds.
//
// A range is computed once per logical operation and, for paginated
// streams, held fixed across every page so that events are neither skipped
// nor duplicated as wall-clock time advances.
type TimeRange struct {
	FromMillis int64
	ToMillis   int64
}

// NewTimeRange computes the window [now - hours, now] at call time.
func NewTimeRange(hours float64) TimeRange {
	now := time.Now().UnixMilli()
	return TimeRange{
		FromMillis: now - int64(hours*3600*1000),
		ToMillis:   now,
	}
}

// Seconds returns the window converted to epoch seconds. The topology
// endpoints expect seconds where the analytics endpoints expect millis.
func (r TimeRange) Seconds() (from, to int64) {
	return r.FromMillis / 1000, r.ToMillis / 1000
}
