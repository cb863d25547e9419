package mcp

import (
	"context"
	"encoding/json"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

// mockQueryService records calls and returns scripted results.
type mockQueryService struct {
	searchQuery   domain.Query
	searchProfile string
	searchResult  []domain.NormalizedEvent
	searchErr     error

	traceID     string
	traceHours  float64
	traceLimit  int
	traceResult []domain.NormalizedEvent

	aggQuery  domain.Query
	aggResult []domain.FieldCount
	aggErr    error

	fetchSource domain.DataSource
	fetchID     string
	fetchResult json.RawMessage
	fetchErr    error

	fieldsKeyword string
	fieldsResult  json.RawMessage

	valuesField  string
	valuesResult json.RawMessage

	connErr error
}

func (m *mockQueryService) Search(_ context.Context, q domain.Query, profile string) ([]domain.NormalizedEvent, error) {
	m.searchQuery = q
	m.searchProfile = profile
	return m.searchResult, m.searchErr
}

func (m *mockQueryService) TraceLogs(_ context.Context, traceID string, hours float64, limit int) ([]domain.NormalizedEvent, error) {
	m.traceID = traceID
	m.traceHours = hours
	m.traceLimit = limit
	return m.traceResult, nil
}

func (m *mockQueryService) Aggregate(_ context.Context, q domain.Query) ([]domain.FieldCount, error) {
	m.aggQuery = q
	return m.aggResult, m.aggErr
}

func (m *mockQueryService) FetchOne(_ context.Context, source domain.DataSource, compoundID string) (json.RawMessage, error) {
	m.fetchSource = source
	m.fetchID = compoundID
	return m.fetchResult, m.fetchErr
}

func (m *mockQueryService) SearchFields(_ context.Context, _ domain.DataSource, keyword string) (json.RawMessage, error) {
	m.fieldsKeyword = keyword
	return m.fieldsResult, nil
}

func (m *mockQueryService) FieldValues(_ context.Context, _ domain.DataSource, field, _ string, _ float64) (json.RawMessage, error) {
	m.valuesField = field
	return m.valuesResult, nil
}

func (m *mockQueryService) TestConnection(_ context.Context) error {
	return m.connErr
}
