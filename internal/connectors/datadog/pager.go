package datadog

import (
	"context"
	"errors"
	"fmt"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"

	"github.com/kestrel-labs/ddwatch/internal/logger"
)

// ErrStopStream stops a Stream early from inside the callback without the
// stop being reported as a failure.
var ErrStopStream = errors.New("datadog: stop stream")

// StreamOptions tunes a paginated stream.
type StreamOptions struct {
	// Profile names the column profile for log queries. Ignored for RUM.
	Profile string

	// MaxTotal caps the number of events delivered across all pages.
	// Required; an unbounded stream against these endpoints is never
	// intentional.
	MaxTotal int
}

// StreamStats reports what a stream actually did.
type StreamStats struct {
	Events int
	Pages  int
}

// Stream pages through a query and delivers each normalized event to fn,
// holding at most one page in memory. q.Limit is the page size.
//
// The time window is computed once and reused for every page, so rows
// cannot slide in or out of the window between requests and the cursor
// chain stays consistent.
//
// Pages are fetched strictly sequentially; each cursor only exists once
// the previous page has been read. Termination, in order of precedence:
// the backend returns no cursor (result set exhausted), MaxTotal events
// have been delivered, or an error occurs. Mid-stream errors return the
// stats for the pages already delivered alongside the error.
func (c *Client) Stream(ctx context.Context, q domain.Query, opts StreamOptions, fn func(domain.NormalizedEvent) error) (StreamStats, error) {
	var stats StreamStats

	if fn == nil {
		return stats, fmt.Errorf("%w: stream callback is required", domain.ErrInvalidQuery)
	}
	if opts.MaxTotal <= 0 {
		return stats, fmt.Errorf("%w: max total must be positive", domain.ErrInvalidQuery)
	}
	if err := q.ValidateList(); err != nil {
		return stats, err
	}

	tr := domain.NewTimeRange(q.Hours)
	cursor := ""

	for {
		pageQ := q
		if remaining := opts.MaxTotal - stats.Events; pageQ.Limit > remaining {
			pageQ.Limit = remaining
		}

		resp, header, _, err := c.listPage(ctx, pageQ, opts.Profile, tr, cursor)
		if err != nil {
			return stats, err
		}
		stats.Pages++

		for _, raw := range resp.Result.Events {
			if stats.Events >= opts.MaxTotal {
				break
			}
			if err := fn(normalizeEvent(raw)); err != nil {
				if errors.Is(err, ErrStopStream) {
					return stats, nil
				}
				return stats, err
			}
			stats.Events++
		}

		cursor = extractCursor(resp, header)
		if cursor == "" {
			logger.Debug("stream exhausted after %d pages, %d events", stats.Pages, stats.Events)
			return stats, nil
		}
		if stats.Events >= opts.MaxTotal {
			logger.Debug("stream reached cap of %d events after %d pages", opts.MaxTotal, stats.Pages)
			return stats, nil
		}
		// A cursor with an empty page would loop forever; treat it as
		// exhaustion.
		if len(resp.Result.Events) == 0 {
			logger.Warn("backend returned a cursor with an empty page, stopping")
			return stats, nil
		}
	}
}

// Collect pages through a query and accumulates up to opts.MaxTotal
// normalized events.
func (c *Client) Collect(ctx context.Context, q domain.Query, opts StreamOptions) ([]domain.NormalizedEvent, error) {
	events := make([]domain.NormalizedEvent, 0, max(min(opts.MaxTotal, q.Limit), 0))
	_, err := c.Stream(ctx, q, opts, func(ev domain.NormalizedEvent) error {
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}
