package datadog

import (
	"fmt"
	"strings"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

// Endpoint paths. The logs-analytics endpoints serve both logs and RUM,
// selected by the `type` query parameter.
const (
	listPath        = "/api/v1/logs-analytics/list"
	aggregatePath   = "/api/v1/logs-analytics/aggregate"
	facetInfoPath   = "/api/v1/logs-analytics/facet_info"
	fetchOnePath    = "/api/v1/logs-analytics/fetch_one"
	fieldSearchPath = "/api/ui/event-platform/query/field"
	fieldValuesPath = "/api/ui/event-platform/query/field-value"
	watchdogPath    = "/api/v2/watchdog/insights/search"
	viewsPath       = "/api/v1/logs/views"
	entitiesPath    = "/api/unstable/apm/entities"
	graphPath       = "/api/unstable/apm/entities/graph"
)

// analyticsPath appends the data-source selector to a logs-analytics path.
func analyticsPath(path string, source domain.DataSource) string {
	return path + "?type=" + string(source)
}

// Request bodies are typed per operation rather than assembled as loose
// maps, so contract violations fail at the builder boundary instead of
// surfacing as backend 400s.

type searchSpec struct {
	Query string `json:"query"`
}

type timeWindow struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

type sortOrder struct {
	Order string `json:"order"`
}

type listSort struct {
	Time sortOrder `json:"time"`
}

type listParams struct {
	Columns       []Column   `json:"columns"`
	Sort          listSort   `json:"sort"`
	Limit         int        `json:"limit"`
	Time          timeWindow `json:"time"`
	Search        searchSpec `json:"search"`
	Indexes       []string   `json:"indexes"`
	IncludeEvents bool       `json:"includeEvents"`
	ComputeCount  bool       `json:"computeCount"`
	ExecutionInfo struct{}   `json:"executionInfo"`
	// StartAt is the pagination cursor from the previous page.
	StartAt string `json:"startAt,omitempty"`
}

type listRequest struct {
	List listParams `json:"list"`
}

type timeseriesCompute struct {
	Metric      string `json:"metric"`
	Output      string `json:"output"`
	Aggregation string `json:"aggregation"`
	IntervalMS  int64  `json:"interval"`
}

type computeSpec struct {
	Timeseries timeseriesCompute `json:"timeseries"`
}

type metricRef struct {
	ID    string `json:"id"`
	Order string `json:"order"`
}

type metricSort struct {
	Metric metricRef `json:"metric"`
}

type groupByField struct {
	ID     string     `json:"id"`
	Output string     `json:"output"`
	Sort   metricSort `json:"sort"`
	Limit  int        `json:"limit"`
}

type groupBy struct {
	Field groupByField `json:"field"`
}

type aggregateParams struct {
	Compute          []computeSpec `json:"compute"`
	Time             timeWindow    `json:"time"`
	Indexes          []string      `json:"indexes"`
	ExecutionInfo    struct{}      `json:"executionInfo"`
	Search           searchSpec    `json:"search"`
	GroupBy          []groupBy     `json:"groupBy"`
	CalculatedFields []any         `json:"calculatedFields"`
}

type aggregateRequest struct {
	Aggregate aggregateParams `json:"aggregate"`
}

type facetInfoParams struct {
	Metric           string     `json:"metric"`
	Limit            int        `json:"limit"`
	Indexes          []string   `json:"indexes"`
	Time             timeWindow `json:"time"`
	Aggregation      string     `json:"aggregation"`
	Search           searchSpec `json:"search"`
	TermSearch       searchSpec `json:"termSearch"`
	Path             string     `json:"path"`
	ExecutionInfo    struct{}   `json:"executionInfo"`
	CalculatedFields []any      `json:"calculatedFields"`
	Extractions      []any      `json:"extractions"`
}

type facetInfoRequest struct {
	FacetInfo facetInfoParams `json:"facet_info"`
}

type fetchOneParams struct {
	ID            string   `json:"id"`
	Indexes       []string `json:"indexes"`
	ExecutionInfo struct{} `json:"executionInfo"`
}

type fetchOneRequest struct {
	FetchOne fetchOneParams `json:"fetch_one"`
}

type fieldSearchRequest struct {
	Type string `json:"type"`
	Term string `json:"term"`
}

type fieldValuesRequest struct {
	Type   string     `json:"type"`
	Field  string     `json:"field"`
	Search searchSpec `json:"search"`
	Time   timeWindow `json:"time"`
}

type watchdogFilter struct {
	Query string `json:"query"`
	From  int64  `json:"from"`
	To    int64  `json:"to"`
}

type watchdogRequest struct {
	Filter watchdogFilter `json:"filter"`
	Source string         `json:"source"`
}

// allIndexes queries every index; the internal UI does the same.
var allIndexes = []string{"*"}

// aggregationInterval is the timeseries bucket width the compute clause
// asks for. The ranked top-values output does not depend on it, but the
// backend rejects an aggregate body without a compute clause.
const aggregationIntervalMS = 60_000

// effectiveQueryText composes the final query string, prepending the RUM
// event-type filter when one is set.
func effectiveQueryText(q domain.Query) string {
	if q.Source == domain.SourceRUM && q.RumType != "" {
		return strings.TrimSpace(fmt.Sprintf("@type:%s %s", q.RumType, q.Text))
	}
	return q.Text
}

// columnsFor picks the column set for a query: the named profile for logs,
// the fixed RUM set for RUM.
func columnsFor(q domain.Query, profile string) []Column {
	if q.Source == domain.SourceRUM {
		return rumColumns
	}
	return Profile(profile)
}

// window converts a domain.TimeRange to the wire shape.
func window(r domain.TimeRange) timeWindow {
	return timeWindow{From: r.FromMillis, To: r.ToMillis}
}

// newListRequest builds a list request body. The window is passed in
// explicitly so a pagination sequence reuses one fixed window; cursor is
// empty for the first page.
func newListRequest(q domain.Query, profile string, tr domain.TimeRange, cursor string) (listRequest, error) {
	if err := q.ValidateList(); err != nil {
		return listRequest{}, err
	}

	return listRequest{List: listParams{
		Columns:       columnsFor(q, profile),
		Sort:          listSort{Time: sortOrder{Order: string(q.EffectiveSort())}},
		Limit:         q.Limit,
		Time:          window(tr),
		Search:        searchSpec{Query: effectiveQueryText(q)},
		Indexes:       allIndexes,
		IncludeEvents: true,
		ComputeCount:  false,
		StartAt:       cursor,
	}}, nil
}

// newAggregateRequest builds a top-values aggregation body. The ranking is
// the backend's: count descending, truncated to q.Limit buckets.
func newAggregateRequest(q domain.Query, tr domain.TimeRange) (aggregateRequest, error) {
	if err := q.ValidateAggregation(); err != nil {
		return aggregateRequest{}, err
	}

	return aggregateRequest{Aggregate: aggregateParams{
		Compute: []computeSpec{{Timeseries: timeseriesCompute{
			Metric:      "count",
			Output:      "count:count:timeseries",
			Aggregation: "count",
			IntervalMS:  aggregationIntervalMS,
		}}},
		Time:    window(tr),
		Indexes: allIndexes,
		Search:  searchSpec{Query: effectiveQueryText(q)},
		GroupBy: []groupBy{{Field: groupByField{
			ID:     q.AggregationField,
			Output: q.AggregationField,
			Sort:   metricSort{Metric: metricRef{ID: "count:count", Order: "desc"}},
			Limit:  q.Limit,
		}}},
		CalculatedFields: []any{},
	}}, nil
}

// newFacetInfoRequest builds a facet metadata/stats body.
func newFacetInfoRequest(q domain.Query, facet string, tr domain.TimeRange) (facetInfoRequest, error) {
	if err := q.ValidateList(); err != nil {
		return facetInfoRequest{}, err
	}
	if facet == "" {
		return facetInfoRequest{}, fmt.Errorf("%w: facet path is required", domain.ErrInvalidQuery)
	}

	return facetInfoRequest{FacetInfo: facetInfoParams{
		Metric:           "count",
		Limit:            q.Limit,
		Indexes:          allIndexes,
		Time:             window(tr),
		Aggregation:      "count",
		Search:           searchSpec{Query: effectiveQueryText(q)},
		TermSearch:       searchSpec{Query: ""},
		Path:             facet,
		CalculatedFields: []any{},
		Extractions:      []any{},
	}}, nil
}

// newFetchOneRequest builds a single-record fetch body for a compound ID.
func newFetchOneRequest(compoundID string) (fetchOneRequest, error) {
	if compoundID == "" {
		return fetchOneRequest{}, fmt.Errorf("%w: record id is required", domain.ErrInvalidQuery)
	}
	return fetchOneRequest{FetchOne: fetchOneParams{
		ID:      compoundID,
		Indexes: allIndexes,
	}}, nil
}
