package datadog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

// Field-catalogue, watchdog and saved-view operations. These responses are
// browsed rather than processed, so they are returned undecoded.

// SearchFields searches the field catalogue of a data source for names
// matching keyword. An empty keyword lists everything the backend is
// willing to page out.
func (c *Client) SearchFields(ctx context.Context, source domain.DataSource, keyword string) (json.RawMessage, error) {
	if !source.Valid() {
		return nil, fmt.Errorf("%w: unknown data source %q", domain.ErrInvalidQuery, source)
	}

	body, _, err := c.postJSON(ctx, fieldSearchPath, fieldSearchRequest{
		Type: string(source),
		Term: keyword,
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// FieldValues lists observed values of one field within the window,
// optionally narrowed by a query.
func (c *Client) FieldValues(ctx context.Context, source domain.DataSource, field, queryText string, hours float64) (json.RawMessage, error) {
	if !source.Valid() {
		return nil, fmt.Errorf("%w: unknown data source %q", domain.ErrInvalidQuery, source)
	}
	if field == "" {
		return nil, fmt.Errorf("%w: field name is required", domain.ErrInvalidQuery)
	}
	if hours <= 0 {
		return nil, fmt.Errorf("%w: hours must be positive", domain.ErrInvalidQuery)
	}

	tr := domain.NewTimeRange(hours)
	body, _, err := c.postJSON(ctx, fieldValuesPath, fieldValuesRequest{
		Type:   string(source),
		Field:  field,
		Search: searchSpec{Query: queryText},
		Time:   window(tr),
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// WatchdogInsights fetches anomaly insights of a data source for the
// window, optionally scoped by a query.
func (c *Client) WatchdogInsights(ctx context.Context, source domain.DataSource, queryText string, hours float64) (json.RawMessage, error) {
	if !source.Valid() {
		return nil, fmt.Errorf("%w: unknown data source %q", domain.ErrInvalidQuery, source)
	}
	if hours <= 0 {
		return nil, fmt.Errorf("%w: hours must be positive", domain.ErrInvalidQuery)
	}

	tr := domain.NewTimeRange(hours)
	body, _, err := c.postJSON(ctx, watchdogPath, watchdogRequest{
		Filter: watchdogFilter{
			Query: queryText,
			From:  tr.FromMillis,
			To:    tr.ToMillis,
		},
		Source: string(source),
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// ListViews lists the saved views of a data source, optionally filtered
// by a name substring.
func (c *Client) ListViews(ctx context.Context, source domain.DataSource, search string, limit int) (json.RawMessage, error) {
	if !source.Valid() {
		return nil, fmt.Errorf("%w: unknown data source %q", domain.ErrInvalidQuery, source)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidQuery)
	}

	params := url.Values{}
	params.Set("type", string(source))
	params.Set("q", search)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fullIntegration", "false")
	params.Set("filter_by_me", "false")

	body, _, err := c.getJSON(ctx, viewsPath+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
