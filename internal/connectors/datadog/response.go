package datadog

import "net/http"

// HeaderNextLogID is the response-header fallback for the pagination
// cursor. Observed in both canonical and lower-case forms.
const HeaderNextLogID = "X-Datadog-Next-Log-Id"

// rawListEvent is one entry of a list response. The inner event object is
// kept loosely typed: its field set depends on the requested columns and
// the event type.
type rawListEvent struct {
	ID    string         `json:"id"`
	Event map[string]any `json:"event"`
}

// listResponse is the decoded shape of a list call.
type listResponse struct {
	Result struct {
		Events    []rawListEvent `json:"events"`
		NextLogID string         `json:"nextLogId"`
		Count     *int64         `json:"count"`
	} `json:"result"`
	Meta struct {
		Page struct {
			After string `json:"after"`
		} `json:"page"`
	} `json:"meta"`
}

// aggregateResponse is the decoded shape of an aggregate call, reduced to
// the ranked buckets the caller cares about.
type aggregateResponse struct {
	Result struct {
		Buckets []aggregateBucket `json:"buckets"`
	} `json:"result"`
}

type aggregateBucket struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// extractCursor finds the pagination cursor for the next page. The backend
// is inconsistent about where it puts it; checked in order:
//
//  1. result.nextLogId in the body
//  2. meta.page.after in the body
//  3. the X-Datadog-Next-Log-Id response header
//
// An empty return means the result set is exhausted; there is no separate
// has-more flag.
func extractCursor(resp *listResponse, header http.Header) string {
	if resp.Result.NextLogID != "" {
		return resp.Result.NextLogID
	}
	if resp.Meta.Page.After != "" {
		return resp.Meta.Page.After
	}
	return header.Get(HeaderNextLogID)
}
