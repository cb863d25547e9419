package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryValidate(t *testing.T) {
	t.Run("accepts a minimal valid query", func(t *testing.T) {
		q := Query{Text: "status:error", Source: SourceLogs, Hours: 24, Limit: 50}
		require.NoError(t, q.Validate())
	})

	t.Run("accepts fractional hours", func(t *testing.T) {
		q := Query{Text: "*", Source: SourceRUM, Hours: 0.25, Limit: 1}
		require.NoError(t, q.Validate())
	})

	t.Run("rejects unknown source", func(t *testing.T) {
		q := Query{Text: "*", Source: "metrics", Hours: 1, Limit: 10}
		err := q.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidQuery)
	})

	t.Run("rejects zero and negative hours", func(t *testing.T) {
		for _, hours := range []float64{0, -1} {
			q := Query{Text: "*", Source: SourceLogs, Hours: hours, Limit: 10}
			assert.ErrorIs(t, q.Validate(), ErrInvalidQuery)
		}
	})

	t.Run("rejects non-positive limit", func(t *testing.T) {
		q := Query{Text: "*", Source: SourceLogs, Hours: 1, Limit: 0}
		assert.ErrorIs(t, q.Validate(), ErrInvalidQuery)
	})

	t.Run("rejects unknown sort order", func(t *testing.T) {
		q := Query{Text: "*", Source: SourceLogs, Hours: 1, Limit: 10, Sort: "sideways"}
		assert.ErrorIs(t, q.Validate(), ErrInvalidQuery)
	})
}

func TestQueryValidateList(t *testing.T) {
	t.Run("forbids aggregation field", func(t *testing.T) {
		q := Query{Text: "*", Source: SourceLogs, Hours: 1, Limit: 10, AggregationField: "service"}
		assert.ErrorIs(t, q.ValidateList(), ErrInvalidQuery)
	})

	t.Run("passes without aggregation field", func(t *testing.T) {
		q := Query{Text: "*", Source: SourceLogs, Hours: 1, Limit: 10}
		require.NoError(t, q.ValidateList())
	})
}

func TestQueryValidateAggregation(t *testing.T) {
	t.Run("requires a field name", func(t *testing.T) {
		q := Query{Text: "*", Source: SourceLogs, Hours: 1, Limit: 10}
		assert.ErrorIs(t, q.ValidateAggregation(), ErrInvalidQuery)
	})

	t.Run("passes with a field name", func(t *testing.T) {
		q := Query{Text: "*", Source: SourceLogs, Hours: 1, Limit: 10, AggregationField: "service"}
		require.NoError(t, q.ValidateAggregation())
	})
}

func TestEffectiveSort(t *testing.T) {
	q := Query{}
	assert.Equal(t, SortDesc, q.EffectiveSort())

	q.Sort = SortAsc
	assert.Equal(t, SortAsc, q.EffectiveSort())
}

func TestNewTimeRange(t *testing.T) {
	before := time.Now().UnixMilli()
	r := NewTimeRange(2)
	after := time.Now().UnixMilli()

	assert.GreaterOrEqual(t, r.ToMillis, before)
	assert.LessOrEqual(t, r.ToMillis, after)
	assert.Equal(t, int64(2*3600*1000), r.ToMillis-r.FromMillis)
}

func TestTimeRangeSeconds(t *testing.T) {
	r := TimeRange{FromMillis: 1_700_000_123_456, ToMillis: 1_700_003_999_999}
	from, to := r.Seconds()
	assert.Equal(t, int64(1_700_000_123), from)
	assert.Equal(t, int64(1_700_003_999), to)
}
