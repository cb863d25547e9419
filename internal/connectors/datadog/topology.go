package datadog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"

	"github.com/kestrel-labs/ddwatch/internal/logger"
)

// TopologyOptions scopes a service-map query.
type TopologyOptions struct {
	// Env selects the deployment environment.
	Env string

	// Hours is the lookback window.
	Hours float64

	// Service, when set, restricts the result to that service and its
	// direct upstream and downstream neighbours.
	Service string
}

// The APM entity endpoints take their window in epoch seconds, unlike the
// analytics endpoints which take milliseconds.

// Stat columns requested from the entity endpoints. The service_health
// attribute is only present in the response when the include parameter
// asks for it.
const (
	entityColumns = "SERVICE_NAME,REQUESTS,REQUESTS_PER_SECOND,ERRORS,ERRORS_PERCENTAGE,LATENCY_AVG,LATENCY_P95"
	graphColumns  = "OPERATION_NAME,REQUESTS_PER_SECOND,LATENCY_AVG,ERRORS_PERCENTAGE"
)

type entityAttributes struct {
	IDTags struct {
		Service string `json:"service"`
	} `json:"id_tags"`
	ServiceHealth struct {
		Status string `json:"status"`
	} `json:"service_health"`
	Stats struct {
		RequestsPerSecond *float64 `json:"requests_per_second"`
		LatencyAvg        *float64 `json:"latency_avg"`
		LatencyP95        *float64 `json:"latency_p95"`
		ErrorsPercentage  *float64 `json:"errors_percentage"`
	} `json:"stats"`
}

type entitiesResponse struct {
	Data []struct {
		ID         string           `json:"id"`
		Type       string           `json:"type"`
		Attributes entityAttributes `json:"attributes"`
	} `json:"data"`
}

type edgeEndpoint struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type graphResponse struct {
	Data []struct {
		Type       string `json:"type"`
		Attributes struct {
			Operation string `json:"operation"`
			SpanKind  string `json:"span.kind"`
		} `json:"attributes"`
		Relationships struct {
			Source edgeEndpoint `json:"source"`
			Target edgeEndpoint `json:"target"`
		} `json:"relationships"`
	} `json:"data"`
}

// ServiceTopology builds the service dependency map for an environment:
// one node per service with its health and traffic stats, one edge per
// observed service-to-service call path.
func (c *Client) ServiceTopology(ctx context.Context, opts TopologyOptions) (*domain.Topology, error) {
	if opts.Env == "" {
		return nil, fmt.Errorf("%w: environment is required", domain.ErrInvalidQuery)
	}
	if opts.Hours <= 0 {
		return nil, fmt.Errorf("%w: hours must be positive", domain.ErrInvalidQuery)
	}

	from, to := domain.NewTimeRange(opts.Hours).Seconds()

	scope := url.Values{}
	scope.Set("filter[env]", opts.Env)
	scope.Set("filter[from]", strconv.FormatInt(from, 10))
	scope.Set("filter[to]", strconv.FormatInt(to, 10))
	scope.Set("source", "web-ui")
	scope.Set("include", "entity.service_health")

	entParams := url.Values{}
	for k, v := range scope {
		entParams[k] = v
	}
	entParams.Set("filter[columns]", entityColumns)
	entParams.Set("filter[entity.type.catalog.kind]", "service")
	entParams.Set("order_by_col", "REQUESTS")
	entParams.Set("order_by_desc", "true")
	entParams.Set("page[size]", "1000")
	entParams.Set("page[number]", "0")

	graphParams := url.Values{}
	for k, v := range scope {
		graphParams[k] = v
	}
	graphParams.Set("filter[columns]", graphColumns)
	graphParams.Set("filter[metadata]", "color")
	graphParams.Set("datastore", "metrics")
	graphParams.Set("page[size]", "0")
	graphParams.Set("return_legacy_fields", "false")
	graphParams.Set("graph.hide_service_overrides", "false")

	entBody, _, err := c.getJSON(ctx, entitiesPath+"?"+entParams.Encode())
	if err != nil {
		return nil, err
	}
	var entities entitiesResponse
	if err := decode(entBody, &entities); err != nil {
		return nil, err
	}

	graphBody, _, err := c.getJSON(ctx, graphPath+"?"+graphParams.Encode())
	if err != nil {
		return nil, err
	}
	var graph graphResponse
	if err := decode(graphBody, &graph); err != nil {
		return nil, err
	}

	topo := assembleTopology(entities, graph)
	if opts.Service != "" {
		topo = neighborhood(topo, opts.Service)
	}

	logger.Debug("topology for env %s: %d services, %d edges", opts.Env, len(topo.Nodes), len(topo.Edges))
	return topo, nil
}

// assembleTopology joins the entity list with the call graph. Entity ids
// key both responses; the service name lives in the entity id tags.
func assembleTopology(entities entitiesResponse, graph graphResponse) *domain.Topology {
	names := make(map[string]string, len(entities.Data))
	topo := &domain.Topology{}

	for _, ent := range entities.Data {
		name := ent.Attributes.IDTags.Service
		if name == "" {
			continue
		}
		names[ent.ID] = name
		topo.Nodes = append(topo.Nodes, domain.ServiceNode{
			Service: name,
			Health:  ent.Attributes.ServiceHealth.Status,
			Stats: domain.ServiceStats{
				RequestsPerSecond: ent.Attributes.Stats.RequestsPerSecond,
				LatencyAvg:        ent.Attributes.Stats.LatencyAvg,
				LatencyP95:        ent.Attributes.Stats.LatencyP95,
				ErrorsPercentage:  ent.Attributes.Stats.ErrorsPercentage,
			},
		})
	}

	for _, edge := range graph.Data {
		src, srcOK := names[edge.Relationships.Source.Data.ID]
		dst, dstOK := names[edge.Relationships.Target.Data.ID]
		// Edges touching entities outside the entity list (lambdas, hosts,
		// third parties) carry no service name and are dropped.
		if !srcOK || !dstOK {
			continue
		}
		topo.Edges = append(topo.Edges, domain.ServiceEdge{
			From:      src,
			To:        dst,
			Operation: edge.Attributes.Operation,
			SpanKind:  edge.Attributes.SpanKind,
		})
	}

	return topo
}

// neighborhood trims a topology to one service plus its direct callers and
// callees.
func neighborhood(topo *domain.Topology, service string) *domain.Topology {
	keep := map[string]bool{service: true}
	out := &domain.Topology{}

	for _, edge := range topo.Edges {
		if edge.From == service || edge.To == service {
			keep[edge.From] = true
			keep[edge.To] = true
			out.Edges = append(out.Edges, edge)
		}
	}
	for _, node := range topo.Nodes {
		if keep[node.Service] {
			out.Nodes = append(out.Nodes, node)
		}
	}

	return out
}
