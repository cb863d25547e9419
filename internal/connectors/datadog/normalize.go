package datadog

import (
	"fmt"
	"unicode/utf8"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"

	"github.com/kestrel-labs/ddwatch/internal/logger"
)

// Event-object keys produced by the list endpoint. Message content arrives
// under "message" or "content" depending on the requested column set.
const (
	keyTimestamp  = "timestamp"
	keyService    = "service"
	keyStatus     = "status"
	keyMessage    = "message"
	keyContent    = "content"
	keyTraceID    = "trace_id"
	keyID         = "id"
	keyFragmentID = "sourceFragmentId"
	keyCustom     = "custom"
)

// normalizeEvent projects one raw list event into the stable output shape.
//
// The compound ID is derived here, from the list-scope id and the fragment
// UUID, so callers can fetch the full record without re-deriving it. A raw
// event without a fragment UUID yields no compound ID; that is not an
// error, some indexes simply do not report fragments.
func normalizeEvent(raw rawListEvent) domain.NormalizedEvent {
	ev := raw.Event

	id := stringField(ev, keyID)
	if id == "" {
		id = raw.ID
	}

	out := domain.NormalizedEvent{
		Timestamp:        stringField(ev, keyTimestamp),
		Service:          stringField(ev, keyService),
		Status:           stringField(ev, keyStatus),
		Message:          truncateMessage(messageField(ev)),
		TraceID:          stringField(ev, keyTraceID),
		ID:               id,
		SourceFragmentID: stringField(ev, keyFragmentID),
	}

	if custom, ok := ev[keyCustom]; ok {
		out.Custom = custom
	}

	if out.ID != "" && out.SourceFragmentID != "" {
		compound, err := EncodeEventID(out.ID, out.SourceFragmentID)
		if err != nil {
			// A malformed id pair only disables the fetch-one shortcut.
			logger.Warn("compound id derivation failed for %s: %v", out.ID, err)
		} else {
			out.CompoundID = compound
		}
	}

	return out
}

// messageField picks the message text, whichever column carried it.
func messageField(ev map[string]any) string {
	if m := stringField(ev, keyMessage); m != "" {
		return m
	}
	return stringField(ev, keyContent)
}

// truncateMessage bounds the message and substitutes the placeholder for
// absent ones. The cut backs off to a rune boundary so a multi-byte
// character straddling the limit is dropped whole, not split into
// invalid UTF-8.
func truncateMessage(msg string) string {
	if msg == "" {
		return domain.MessagePlaceholder
	}
	if len(msg) <= domain.MaxMessageLength {
		return msg
	}

	cut := domain.MaxMessageLength
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}

// stringField reads a field as a string. Numeric timestamps (epoch millis)
// are rendered as their decimal form rather than dropped.
func stringField(ev map[string]any, key string) string {
	v, ok := ev[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
