// Package domain defines the core entities for ddwatch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Credential: A captured browser-session credential
//   - Query: A logical log/RUM query before request building
//   - NormalizedEvent: The stable event shape exposed to callers
//   - FieldCount: One ranked aggregation bucket
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
