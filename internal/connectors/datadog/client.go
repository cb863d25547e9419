package datadog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"

	"github.com/kestrel-labs/ddwatch/internal/logger"
)

// Client talks to the internal web-UI query APIs using a captured browser
// session. Safe for concurrent use; all request state is per-call.
type Client struct {
	cfg     Config
	cred    *domain.Credential
	http    *http.Client
	limiter *RateLimiter
}

// New builds a client from a captured credential. The credential must be
// complete; a missing cookie or token is reported as not-configured so the
// caller can direct the user to the capture flow instead of firing a
// request that will only bounce.
func New(cred *domain.Credential, cfg Config) (*Client, error) {
	if cred == nil || !cred.IsComplete() {
		return nil, fmt.Errorf("%w: session cookie and CSRF token are required", domain.ErrNotConfigured)
	}
	cfg = cfg.withDefaults()

	return &Client{
		cfg:     cfg,
		cred:    cred,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: NewRateLimiter(),
	}, nil
}

// BaseURL reports the site the client is bound to.
func (c *Client) BaseURL() string {
	return c.cred.BaseURL
}

// listPage executes one page of a list query against a fixed time window.
func (c *Client) listPage(ctx context.Context, q domain.Query, profile string, tr domain.TimeRange, cursor string) (*listResponse, http.Header, []byte, error) {
	req, err := newListRequest(q, profile, tr, cursor)
	if err != nil {
		return nil, nil, nil, err
	}

	body, header, err := c.postJSON(ctx, analyticsPath(listPath, q.Source), req)
	if err != nil {
		return nil, nil, nil, err
	}

	var resp listResponse
	if err := decode(body, &resp); err != nil {
		return nil, nil, nil, err
	}
	return &resp, header, body, nil
}

// Search runs a single-page query and returns normalized events. For
// results larger than one page, use Stream.
func (c *Client) Search(ctx context.Context, q domain.Query, profile string) ([]domain.NormalizedEvent, error) {
	resp, _, _, err := c.listPage(ctx, q, profile, domain.NewTimeRange(q.Hours), "")
	if err != nil {
		return nil, err
	}

	events := make([]domain.NormalizedEvent, 0, len(resp.Result.Events))
	for _, raw := range resp.Result.Events {
		events = append(events, normalizeEvent(raw))
	}
	logger.Debug("search returned %d events", len(events))
	return events, nil
}

// SearchRaw runs a single-page query and returns the undecoded backend
// response, for callers that want fields the normalized shape drops.
func (c *Client) SearchRaw(ctx context.Context, q domain.Query, profile string) (json.RawMessage, error) {
	_, _, raw, err := c.listPage(ctx, q, profile, domain.NewTimeRange(q.Hours), "")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// TraceLogs fetches the log records correlated with one trace, newest
// first, using the trace-oriented column set.
func (c *Client) TraceLogs(ctx context.Context, traceID string, hours float64, limit int) ([]domain.NormalizedEvent, error) {
	if traceID == "" {
		return nil, fmt.Errorf("%w: trace id is required", domain.ErrInvalidQuery)
	}

	q := domain.Query{
		Text:   "trace_id:" + traceID,
		Source: domain.SourceLogs,
		Hours:  hours,
		Limit:  limit,
	}
	return c.Search(ctx, q, "trace")
}

// Aggregate runs a top-values aggregation over q.AggregationField and
// returns the backend's ranked buckets in backend order.
func (c *Client) Aggregate(ctx context.Context, q domain.Query) ([]domain.FieldCount, error) {
	req, err := newAggregateRequest(q, domain.NewTimeRange(q.Hours))
	if err != nil {
		return nil, err
	}

	body, _, err := c.postJSON(ctx, analyticsPath(aggregatePath, q.Source), req)
	if err != nil {
		return nil, err
	}

	var resp aggregateResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}

	counts := make([]domain.FieldCount, 0, len(resp.Result.Buckets))
	for _, b := range resp.Result.Buckets {
		counts = append(counts, domain.FieldCount{Value: b.Value, Count: b.Count})
	}
	return counts, nil
}

// FacetInfo fetches metadata and value statistics for one facet path. The
// response shape varies by facet type, so it is returned undecoded.
func (c *Client) FacetInfo(ctx context.Context, q domain.Query, facet string) (json.RawMessage, error) {
	req, err := newFacetInfoRequest(q, facet, domain.NewTimeRange(q.Hours))
	if err != nil {
		return nil, err
	}

	body, _, err := c.postJSON(ctx, analyticsPath(facetInfoPath, q.Source), req)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// FetchOne retrieves the complete record behind a compound identifier,
// as produced by EncodeEventID or carried on a normalized event.
func (c *Client) FetchOne(ctx context.Context, source domain.DataSource, compoundID string) (json.RawMessage, error) {
	if !source.Valid() {
		return nil, fmt.Errorf("%w: unknown data source %q", domain.ErrInvalidQuery, source)
	}
	req, err := newFetchOneRequest(compoundID)
	if err != nil {
		return nil, err
	}

	body, _, err := c.postJSON(ctx, analyticsPath(fetchOnePath, source), req)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// FetchOneByParts derives the compound identifier from a record id and
// fragment UUID, then fetches the record.
func (c *Client) FetchOneByParts(ctx context.Context, source domain.DataSource, recordID, fragmentUUID string) (json.RawMessage, error) {
	compound, err := EncodeEventID(recordID, fragmentUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
	}
	return c.FetchOne(ctx, source, compound)
}

// TestConnection issues a minimal query to verify the captured session is
// still accepted. A nil return means auth and transport both work.
func (c *Client) TestConnection(ctx context.Context) error {
	q := domain.Query{
		Text:   "",
		Source: domain.SourceLogs,
		Hours:  0.25,
		Limit:  1,
	}
	_, err := c.Search(ctx, q, "minimal")
	return err
}
