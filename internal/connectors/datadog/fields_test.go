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

func TestSearchFields(t *testing.T) {
	var req fieldSearchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fieldSearchPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Write([]byte(`{"fields":[{"name":"@http.status_code"}]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	raw, err := c.SearchFields(context.Background(), domain.SourceLogs, "status")

	require.NoError(t, err)
	assert.Equal(t, "logs", req.Type)
	assert.Equal(t, "status", req.Term)
	assert.Contains(t, string(raw), "@http.status_code")
}

func TestFieldValues(t *testing.T) {
	t.Run("sends field and scope", func(t *testing.T) {
		var req fieldValuesRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, fieldValuesPath, r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			w.Write([]byte(`{"values":["prod","staging"]}`))
		}))
		defer srv.Close()

		c := testClient(t, srv.URL)
		_, err := c.FieldValues(context.Background(), domain.SourceRUM, "@geo.country", "service:frontend", 2)

		require.NoError(t, err)
		assert.Equal(t, "rum", req.Type)
		assert.Equal(t, "@geo.country", req.Field)
		assert.Equal(t, "service:frontend", req.Search.Query)
		assert.Greater(t, req.Time.To, req.Time.From)
	})

	t.Run("validation", func(t *testing.T) {
		c := testClient(t, "http://127.0.0.1:0")

		_, err := c.FieldValues(context.Background(), domain.SourceLogs, "", "", 2)
		assert.ErrorIs(t, err, domain.ErrInvalidQuery)

		_, err = c.FieldValues(context.Background(), domain.SourceLogs, "service", "", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidQuery)

		_, err = c.FieldValues(context.Background(), "metrics", "service", "", 2)
		assert.ErrorIs(t, err, domain.ErrInvalidQuery)
	})
}

func TestWatchdogInsights(t *testing.T) {
	t.Run("sends query and source", func(t *testing.T) {
		var req watchdogRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, watchdogPath, r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			w.Write([]byte(`{"insights":[]}`))
		}))
		defer srv.Close()

		c := testClient(t, srv.URL)
		_, err := c.WatchdogInsights(context.Background(), domain.SourceLogs, "service:api", 6)

		require.NoError(t, err)
		assert.Equal(t, "service:api", req.Filter.Query)
		assert.Equal(t, "logs", req.Source)
		assert.Greater(t, req.Filter.To, req.Filter.From)
	})

	t.Run("rum source", func(t *testing.T) {
		var req watchdogRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			w.Write([]byte(`{"insights":[]}`))
		}))
		defer srv.Close()

		c := testClient(t, srv.URL)
		_, err := c.WatchdogInsights(context.Background(), domain.SourceRUM, "", 6)

		require.NoError(t, err)
		assert.Equal(t, "rum", req.Source)
	})

	t.Run("validation", func(t *testing.T) {
		c := testClient(t, "http://127.0.0.1:0")

		_, err := c.WatchdogInsights(context.Background(), "metrics", "", 6)
		assert.ErrorIs(t, err, domain.ErrInvalidQuery)

		_, err = c.WatchdogInsights(context.Background(), domain.SourceLogs, "", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidQuery)
	})
}

func TestListViews(t *testing.T) {
	t.Run("passes source, filter and limit", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, viewsPath, r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "logs", q.Get("type"))
			assert.Equal(t, "errors", q.Get("q"))
			assert.Equal(t, "25", q.Get("limit"))
			assert.Equal(t, "false", q.Get("fullIntegration"))
			assert.Equal(t, "false", q.Get("filter_by_me"))
			w.Write([]byte(`{"logs_views":[]}`))
		}))
		defer srv.Close()

		c := testClient(t, srv.URL)
		_, err := c.ListViews(context.Background(), domain.SourceLogs, "errors", 25)
		assert.NoError(t, err)
	})

	t.Run("rum views", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "rum", r.URL.Query().Get("type"))
			assert.Equal(t, "", r.URL.Query().Get("q"))
			w.Write([]byte(`{"logs_views":[]}`))
		}))
		defer srv.Close()

		c := testClient(t, srv.URL)
		_, err := c.ListViews(context.Background(), domain.SourceRUM, "", 10)
		assert.NoError(t, err)
	})

	t.Run("validation", func(t *testing.T) {
		c := testClient(t, "http://127.0.0.1:0")

		_, err := c.ListViews(context.Background(), domain.SourceLogs, "", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidQuery)

		_, err = c.ListViews(context.Background(), "traces", "", 10)
		assert.ErrorIs(t, err, domain.ErrInvalidQuery)
	})
}
