// Package datadog implements a session-authenticated client for Datadog's
// internal web-UI query APIs: log search, RUM search, field aggregation,
// single-record fetch, field exploration, Watchdog insights, saved views,
// and the APM service topology graph.
//
// These are NOT the public Datadog APIs. They are the endpoints the web UI
// itself calls, authenticated with a browser session cookie and CSRF token
// captured manually. The request and response shapes in this package are
// reverse-engineered from observed web-UI traffic and can break without
// notice when the backend changes.
//
// The client is safe for concurrent use by independent query pipelines.
// Pagination within one stream is strictly sequential because the backend
// cursor is stateful.
package datadog
