package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/supplysight/internal/model"
)

func fixedClock() time.Time { return time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC) }

func TestSeriesShapeAndBounds(t *testing.T) {
	k := NewKPISynthesizer(0, 365).WithClock(fixedClock)
	products := catalog()
	points, err := k.Series(products, 7)
	require.NoError(t, err)
	require.Len(t, points, 7)
	assert.Equal(t, "2025-03-04", points[0].Date)
	assert.Equal(t, "2025-03-10", points[6].Date)

	var stock, demand float64
	for _, p := range products {
		stock += float64(p.Stock)
		demand += float64(p.Demand)
	}
	for _, p := range points {
		assert.InDelta(t, stock, float64(p.Stock), stock*0.05+1, p.Date)
		assert.InDelta(t, demand, float64(p.Demand), demand*0.05+1, p.Date)
	}
}

func TestSeriesDatesAreConsecutive(t *testing.T) {
	k := NewKPISynthesizer(1, 365).WithClock(fixedClock)
	points, err := k.Series(catalog(), 30)
	require.NoError(t, err)
	for i := 1; i < len(points); i++ {
		prev, err := time.Parse(dateLayout, points[i-1].Date)
		require.NoError(t, err)
		cur, err := time.Parse(dateLayout, points[i].Date)
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, cur.Sub(prev))
	}
}

func TestSeriesSeededIsDeterministicPerDay(t *testing.T) {
	k := NewKPISynthesizer(42, 365).WithClock(fixedClock)
	a, err := k.Series(catalog(), 14)
	require.NoError(t, err)
	b, err := k.Series(catalog(), 14)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other := NewKPISynthesizer(43, 365).WithClock(fixedClock)
	c, err := other.Series(catalog(), 14)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSeriesEmptyInventoryIsZero(t *testing.T) {
	points, err := NewKPISynthesizer(0, 365).WithClock(fixedClock).Series(nil, 3)
	require.NoError(t, err)
	for _, p := range points {
		assert.Zero(t, p.Stock)
		assert.Zero(t, p.Demand)
	}
}

func TestSeriesRejectsBadRange(t *testing.T) {
	k := NewKPISynthesizer(0, 90)
	for _, r := range []int{0, -7, 91} {
		_, err := k.Series(catalog(), r)
		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve, "range %d", r)
		assert.Equal(t, "range", ve.Field)
	}
}

func TestSeriesRejectsTotalsAboveLimit(t *testing.T) {
	products := []model.Product{
		{ID: "P1", Warehouse: "A", Stock: 2_000_000_000, Demand: 5},
		{ID: "P2", Warehouse: "A", Stock: 2_000_000_000, Demand: 5},
	}
	_, err := NewKPISynthesizer(1, 365).WithClock(fixedClock).Series(products, 7)
	var oe *model.OutOfRangeError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "kpis.stock", oe.Field)
	assert.Equal(t, int64(model.MaxQuantity), oe.Limit)
	assert.Equal(t, model.CodeOutOfRange, oe.Code())
}
