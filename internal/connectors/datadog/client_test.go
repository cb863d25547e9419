package datadog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/logs-analytics/list", r.URL.Path)
		assert.Equal(t, "logs", r.URL.Query().Get("type"))
		w.Write([]byte(scriptPage(3, 0, "")))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	events, err := c.Search(context.Background(), streamQuery(10), "list")

	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "msg 1", events[1].Message)
}

func TestSearchRUM(t *testing.T) {
	var req listRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rum", r.URL.Query().Get("type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Write([]byte(`{"result":{"events":[]}}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	q := domain.Query{
		Text:    "service:frontend",
		Source:  domain.SourceRUM,
		RumType: domain.RumError,
		Hours:   2,
		Limit:   10,
	}
	_, err := c.Search(context.Background(), q, "")

	require.NoError(t, err)
	assert.Equal(t, "@type:error service:frontend", req.List.Search.Query)
	assert.Equal(t, rumColumns, req.List.Columns, "RUM queries use the fixed RUM column set")
}

func TestAggregate(t *testing.T) {
	t.Run("preserves backend bucket order", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/logs-analytics/aggregate", r.URL.Path)
			w.Write([]byte(`{"result":{"buckets":[
				{"value":"checkout","count":900},
				{"value":"api","count":1200},
				{"value":"worker","count":3}
			]}}`))
		}))
		defer srv.Close()

		c := testClient(t, srv.URL)
		q := domain.Query{
			Source:           domain.SourceLogs,
			Hours:            4,
			Limit:            10,
			AggregationField: "service",
		}
		counts, err := c.Aggregate(context.Background(), q)

		require.NoError(t, err)
		require.Len(t, counts, 3)
		// Backend order is authoritative even when it is not count-sorted.
		assert.Equal(t, domain.FieldCount{Value: "checkout", Count: 900}, counts[0])
		assert.Equal(t, domain.FieldCount{Value: "api", Count: 1200}, counts[1])
		assert.Equal(t, domain.FieldCount{Value: "worker", Count: 3}, counts[2])
	})

	t.Run("requires an aggregation field", func(t *testing.T) {
		c := testClient(t, "http://127.0.0.1:0")
		_, err := c.Aggregate(context.Background(), domain.Query{
			Source: domain.SourceLogs,
			Hours:  1,
			Limit:  10,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuery)
	})
}

func TestFetchOne(t *testing.T) {
	t.Run("sends the compound id", func(t *testing.T) {
		var req fetchOneRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/logs-analytics/fetch_one", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			w.Write([]byte(`{"result":{"event":{"message":"full record"}}}`))
		}))
		defer srv.Close()

		c := testClient(t, srv.URL)
		raw, err := c.FetchOne(context.Background(), domain.SourceLogs, "compound-abc")

		require.NoError(t, err)
		assert.Equal(t, "compound-abc", req.FetchOne.ID)
		assert.Contains(t, string(raw), "full record")
	})

	t.Run("by parts derives the compound id first", func(t *testing.T) {
		var req fetchOneRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			w.Write([]byte(`{"result":{}}`))
		}))
		defer srv.Close()

		c := testClient(t, srv.URL)
		_, err := c.FetchOneByParts(context.Background(), domain.SourceLogs, "rec-1", "0f0e0d0c-0b0a-0908-0706-050403020100")
		require.NoError(t, err)

		expected, err := EncodeEventID("rec-1", "0f0e0d0c-0b0a-0908-0706-050403020100")
		require.NoError(t, err)
		assert.Equal(t, expected, req.FetchOne.ID)
	})

	t.Run("empty id rejected locally", func(t *testing.T) {
		c := testClient(t, "http://127.0.0.1:0")
		_, err := c.FetchOne(context.Background(), domain.SourceLogs, "")
		assert.ErrorIs(t, err, domain.ErrInvalidQuery)
	})
}

func TestTraceLogs(t *testing.T) {
	var req listRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Write([]byte(scriptPage(2, 0, "")))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	events, err := c.TraceLogs(context.Background(), "trace-42", 4, 50)

	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, "trace_id:trace-42", req.List.Search.Query)
	assert.Equal(t, Profile("trace"), req.List.Columns)
}

func TestTestConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"events":[]}}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	assert.NoError(t, c.TestConnection(context.Background()))
}
