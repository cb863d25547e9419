package datadog

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// The single-record fetch endpoint does not accept the short id returned
// by list queries. It wants a compound identifier that also names the
// storage fragment holding the full record. The web UI receives these
// pre-built; a client that only has list output must reconstruct them.
//
// The layout below was recovered by decoding identifiers captured from
// web-UI traffic:
//
//	header (16 bytes) | len(recordID) (1 byte) | recordID (ASCII)
//	| separator (4 bytes, ends '$') | fragment UUID (ASCII) | trailer (4 bytes)
//
// base64 (standard alphabet, no padding) over the concatenation. The
// length prefix is required because the record id is variable-length.
// This is inherently fragile against backend changes; keep every byte-level
// assumption inside this file.
var (
	eventIDHeader    = []byte{0x02, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x22}
	eventIDSeparator = []byte{0x00, 0x00, 0x01, '$'}
	eventIDTrailer   = []byte{0x00, 0x00, 0x00, 0x02}
)

// syntheticSuffixMarker starts the suffix the backend appends to fragment
// UUIDs of synthetic (replayed/sampled) events. The fetch endpoint rejects
// compound IDs that still carry it.
const syntheticSuffixMarker = "-synthetic"

// maxRecordIDLen is the largest record id the one-byte length prefix can
// express.
const maxRecordIDLen = 255

// EncodeEventID builds the compound identifier the fetch_one endpoint
// expects from a list-scope record id and its fragment UUID.
//
// The function is pure: no network, no client state. fragmentUUID is
// truncated at the synthetic-suffix marker before encoding.
func EncodeEventID(recordID, fragmentUUID string) (string, error) {
	if recordID == "" {
		return "", fmt.Errorf("record id is empty")
	}
	if len(recordID) > maxRecordIDLen {
		return "", fmt.Errorf("record id too long: %d bytes, max %d", len(recordID), maxRecordIDLen)
	}
	if fragmentUUID == "" {
		return "", fmt.Errorf("fragment uuid is empty")
	}

	if i := strings.Index(fragmentUUID, syntheticSuffixMarker); i >= 0 {
		fragmentUUID = fragmentUUID[:i]
	}

	buf := make([]byte, 0, len(eventIDHeader)+1+len(recordID)+len(eventIDSeparator)+len(fragmentUUID)+len(eventIDTrailer))
	buf = append(buf, eventIDHeader...)
	buf = append(buf, byte(len(recordID)))
	buf = append(buf, recordID...)
	buf = append(buf, eventIDSeparator...)
	buf = append(buf, fragmentUUID...)
	buf = append(buf, eventIDTrailer...)

	return base64.RawStdEncoding.EncodeToString(buf), nil
}
