package domain

// MaxMessageLength bounds NormalizedEvent.Message. List responses can carry
// multi-kilobyte payload dumps; downstream consumers (MCP tool output in
// particular) need a predictable ceiling. The full text is reachable via a
// follow-up single-record fetch using CompoundID.
const MaxMessageLength = 500

// MessagePlaceholder is substituted when an event carries no message field.
const MessagePlaceholder = "(no message)"

// NormalizedEvent is the stable, simplified event shape exposed to callers.
// Produced fresh per query; never persisted.
type NormalizedEvent struct {
	// Timestamp is the event time as the backend reports it.
	Timestamp string `json:"timestamp"`

	// Service is the emitting service name.
	Service string `json:"service,omitempty"`

	// Status is the severity/status field (error, warn, info, ...).
	Status string `json:"status,omitempty"`

	// Message is the event message, truncated to MaxMessageLength.
	Message string `json:"message"`

	// TraceID correlates the event with a distributed trace.
	TraceID string `json:"trace_id,omitempty"`

	// ID is the list-scope event identifier.
	ID string `json:"id,omitempty"`

	// SourceFragmentID is the per-storage-shard fragment identifier, when
	// the list response carried one.
	SourceFragmentID string `json:"source_fragment_id,omitempty"`

	// CompoundID is the opaque identifier accepted by the single-record
	// fetch endpoint. Derived from ID and SourceFragmentID when both are
	// present; empty otherwise.
	CompoundID string `json:"compound_id,omitempty"`

	// Custom is an opaque passthrough of the event's custom attributes.
	// Its schema is backend- and event-type-dependent; it is never
	// validated or interpreted here.
	Custom any `json:"custom,omitempty"`
}

// FieldCount is one bucket of an aggregation result. Order is significant:
// the backend returns buckets already ranked and the core preserves that
// ranking verbatim.
type FieldCount struct {
	// Value is the field value for this bucket.
	Value string `json:"value"`

	// Count is the number of matching events.
	Count int64 `json:"count"`
}

// ServiceNode is one service in the topology graph.
type ServiceNode struct {
	Service string       `json:"service"`
	Health  string       `json:"health"`
	Stats   ServiceStats `json:"stats"`
}

// ServiceStats carries the per-service metrics the topology endpoint exposes.
type ServiceStats struct {
	RequestsPerSecond *float64 `json:"requests_per_second,omitempty"`
	LatencyAvg        *float64 `json:"latency_avg,omitempty"`
	LatencyP95        *float64 `json:"latency_p95,omitempty"`
	ErrorsPercentage  *float64 `json:"errors_percentage,omitempty"`
}

// ServiceEdge is one dependency edge in the topology graph.
type ServiceEdge struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Operation string `json:"operation,omitempty"`
	SpanKind  string `json:"span_kind,omitempty"`
}

// Topology is a service dependency graph.
type Topology struct {
	Nodes []ServiceNode `json:"nodes"`
	Edges []ServiceEdge `json:"edges"`
}
