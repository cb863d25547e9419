package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

func newTestServer(t *testing.T, mock *mockQueryService, cred *domain.Credential) *Server {
	t.Helper()

	s, err := NewServer(&Ports{Query: mock, Credential: cred})
	require.NoError(t, err)
	return s
}

func TestHandleSearchLogs(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		mock := &mockQueryService{
			searchResult: []domain.NormalizedEvent{{ID: "ev-1", Message: "boom"}},
		}
		s := newTestServer(t, mock, nil)

		_, out, err := s.handleSearchLogs(context.Background(), nil, SearchLogsInput{Query: "status:error"})

		require.NoError(t, err)
		assert.Equal(t, 1, out.Count)
		assert.Equal(t, "status:error", mock.searchQuery.Text)
		assert.Equal(t, domain.SourceLogs, mock.searchQuery.Source)
		assert.InDelta(t, defaultHours, mock.searchQuery.Hours, 0.001)
		assert.Equal(t, defaultLimit, mock.searchQuery.Limit)
	})

	t.Run("auth failure carries remediation", func(t *testing.T) {
		mock := &mockQueryService{searchErr: domain.ErrAuthExpired}
		s := newTestServer(t, mock, nil)

		_, _, err := s.handleSearchLogs(context.Background(), nil, SearchLogsInput{Query: "x"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "ddwatch auth set")
	})
}

func TestHandleRumSearch(t *testing.T) {
	mock := &mockQueryService{}
	s := newTestServer(t, mock, nil)

	_, _, err := s.handleRumSearch(context.Background(), nil, RumSearchInput{
		Query:     "service:frontend",
		EventType: "error",
		Hours:     2,
		Limit:     5,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.SourceRUM, mock.searchQuery.Source)
	assert.Equal(t, domain.RumError, mock.searchQuery.RumType)
	assert.Equal(t, 5, mock.searchQuery.Limit)
}

func TestHandleTraceLogs(t *testing.T) {
	mock := &mockQueryService{
		traceResult: []domain.NormalizedEvent{{ID: "a"}, {ID: "b"}},
	}
	s := newTestServer(t, mock, nil)

	_, out, err := s.handleTraceLogs(context.Background(), nil, TraceLogsInput{TraceID: "trace-9"})

	require.NoError(t, err)
	assert.Equal(t, "trace-9", mock.traceID)
	assert.Equal(t, 2, out.Count)
}

func TestHandleTopValues(t *testing.T) {
	ranked := []domain.FieldCount{
		{Value: "api", Count: 100},
		{Value: "worker", Count: 40},
	}
	mock := &mockQueryService{aggResult: ranked}
	s := newTestServer(t, mock, nil)

	_, out, err := s.handleTopValues(context.Background(), nil, TopValuesInput{Field: "service", Rum: true})

	require.NoError(t, err)
	assert.Equal(t, "service", mock.aggQuery.AggregationField)
	assert.Equal(t, domain.SourceRUM, mock.aggQuery.Source)
	assert.Equal(t, ranked, out.Values, "ranking order passes through untouched")
}

func TestHandleFetchEvent(t *testing.T) {
	mock := &mockQueryService{fetchResult: json.RawMessage(`{"full":true}`)}
	s := newTestServer(t, mock, nil)

	_, out, err := s.handleFetchEvent(context.Background(), nil, FetchEventInput{CompoundID: "compound-1"})

	require.NoError(t, err)
	assert.Equal(t, "compound-1", mock.fetchID)
	assert.Equal(t, domain.SourceLogs, mock.fetchSource)
	assert.JSONEq(t, `{"full":true}`, string(out.Result))
}

func TestHandleFieldTools(t *testing.T) {
	mock := &mockQueryService{
		fieldsResult: json.RawMessage(`{"fields":[]}`),
		valuesResult: json.RawMessage(`{"values":[]}`),
	}
	s := newTestServer(t, mock, nil)

	_, _, err := s.handleSearchFields(context.Background(), nil, SearchFieldsInput{Keyword: "http"})
	require.NoError(t, err)
	assert.Equal(t, "http", mock.fieldsKeyword)

	_, _, err = s.handleFieldValues(context.Background(), nil, FieldValuesInput{Field: "@geo.country"})
	require.NoError(t, err)
	assert.Equal(t, "@geo.country", mock.valuesField)
}

func TestHandleAuthStatus(t *testing.T) {
	t.Run("no credential", func(t *testing.T) {
		s := newTestServer(t, &mockQueryService{}, nil)

		_, out, err := s.handleAuthStatus(context.Background(), nil, struct{}{})

		require.NoError(t, err)
		assert.False(t, out.Configured)
		assert.Contains(t, out.Detail, "auth set")
	})

	t.Run("accepted credential reports age", func(t *testing.T) {
		cred := &domain.Credential{
			SessionCookie: "c",
			CSRFToken:     "t",
			CapturedAt:    time.Now().Add(-3 * time.Hour),
		}
		s := newTestServer(t, &mockQueryService{}, cred)

		_, out, err := s.handleAuthStatus(context.Background(), nil, struct{}{})

		require.NoError(t, err)
		assert.True(t, out.Configured)
		assert.True(t, out.Accepted)
		assert.InDelta(t, 3, out.AgeHours, 0.1)
	})

	t.Run("rejected credential is reported, not errored", func(t *testing.T) {
		cred := &domain.Credential{SessionCookie: "c", CSRFToken: "t"}
		s := newTestServer(t, &mockQueryService{connErr: domain.ErrAuthExpired}, cred)

		_, out, err := s.handleAuthStatus(context.Background(), nil, struct{}{})

		require.NoError(t, err)
		assert.True(t, out.Configured)
		assert.False(t, out.Accepted)
		assert.Contains(t, out.Detail, "re-capture")
	})
}
