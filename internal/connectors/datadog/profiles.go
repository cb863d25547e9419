package datadog

// Column selects one field in a list response, in order.
type Column struct {
	Field FieldRef `json:"field"`
}

// FieldRef names a field by its path.
type FieldRef struct {
	Path string `json:"path"`
}

// cols builds an ordered column set from field paths.
func cols(paths ...string) []Column {
	out := make([]Column, len(paths))
	for i, p := range paths {
		out[i] = Column{Field: FieldRef{Path: p}}
	}
	return out
}

// DefaultProfile is used when no profile is named.
const DefaultProfile = "list"

// profiles are the named column sets for log queries. Column order matters:
// the backend returns columns in the requested order.
var profiles = map[string][]Column{
	"list":    cols("timestamp", "service", "host", "status", "content", "trace_id"),
	"trace":   cols("timestamp", "service", "span_id", "trace_id", "message"),
	"k8s":     cols("timestamp", "kube_namespace", "pod_name", "container_id", "message"),
	"minimal": cols("timestamp", "service", "content"),
	"full":    cols("status_line", "timestamp", "host", "service", "content", "trace_id", "span_id"),
}

// rumColumns is the fixed column set for RUM queries. RUM fields live under
// the @-prefixed attribute namespace.
var rumColumns = cols(
	"timestamp",
	"@type",
	"@session.id",
	"@usr.id",
	"@view.name",
	"@action.name",
	"@error.message",
)

// Profile returns the named column set, falling back to the default.
func Profile(name string) []Column {
	if p, ok := profiles[name]; ok {
		return p
	}
	return profiles[DefaultProfile]
}

// ProfileNames lists the available profile names.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	return names
}
