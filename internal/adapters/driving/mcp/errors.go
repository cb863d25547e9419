// Package mcp provides an MCP (Model Context Protocol) server adapter for
// ddwatch. It exposes the observability query operations as tools an AI
// assistant can call during an investigation.
package mcp

import (
	"errors"
	"fmt"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

// ErrMissingQueryService is returned when no query service is provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")

// toolError rewrites backend failures into messages that tell the caller
// what to do next, not just what broke. Assistants relay these verbatim to
// the user, so the remediation has to be in the text.
func toolError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		return fmt.Errorf("no session credential configured; run 'ddwatch auth set' first: %w", err)
	case errors.Is(err, domain.ErrAuthExpired):
		return fmt.Errorf("the captured session was rejected; re-capture it with 'ddwatch auth set': %w", err)
	case errors.Is(err, domain.ErrRateLimited):
		return fmt.Errorf("the backend is rate limiting queries; wait before retrying: %w", err)
	case errors.Is(err, domain.ErrUnreachable):
		return fmt.Errorf("the backend could not be reached: %w", err)
	default:
		return err
	}
}
