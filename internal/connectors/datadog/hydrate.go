package datadog

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"

	"github.com/kestrel-labs/ddwatch/internal/logger"
)

// HydratedEvent pairs a normalized list event with the full record behind
// it. A per-record fetch failure is recorded on the entry instead of
// failing the whole batch; Err is empty on success.
type HydratedEvent struct {
	Event domain.NormalizedEvent `json:"event"`
	Full  json.RawMessage        `json:"full_event,omitempty"`
	Err   string                 `json:"error,omitempty"`
}

// DeepFetch runs a paginated query and hydrates every result with its
// complete record via the single-record endpoint.
//
// Listing stays sequential (the cursor chain demands it); hydration fans
// out, bounded by Config.HydrateConcurrency. Results keep list order.
// Events without a compound identifier are returned unhydrated with Err
// set. An expired session aborts the whole batch, since every remaining
// fetch would fail the same way.
func (c *Client) DeepFetch(ctx context.Context, q domain.Query, opts StreamOptions) ([]HydratedEvent, error) {
	events, err := c.Collect(ctx, q, opts)
	if err != nil {
		return nil, err
	}

	results := make([]HydratedEvent, len(events))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.HydrateConcurrency)

	for i, ev := range events {
		results[i] = HydratedEvent{Event: ev}

		if ev.CompoundID == "" {
			results[i].Err = "no compound identifier on list event"
			continue
		}

		g.Go(func() error {
			full, err := c.FetchOne(gctx, q.Source, ev.CompoundID)
			if err != nil {
				if IsAuthExpired(err) {
					return err
				}
				logger.Debug("hydration failed for %s: %v", ev.ID, err)
				results[i].Err = err.Error()
				return nil
			}
			results[i].Full = full
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
