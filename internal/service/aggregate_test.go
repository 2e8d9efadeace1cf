package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SP-Mercury/voicebudget/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(amount float64, category model.Category, typ model.Type, when time.Time) model.Record {
	return model.Record{
		Description: "x",
		Amount:      amount,
		Category:    category,
		Type:        typ,
		Time:        when,
	}
}

func TestAggregateEmpty(t *testing.T) {
	agg := Aggregate(nil)
	assert.Empty(t, agg.CategoryTotals)
	assert.Empty(t, agg.DailySeries)

	agg = Aggregate([]model.Record{})
	assert.Empty(t, agg.CategoryTotals)
	assert.Empty(t, agg.DailySeries)
}

func TestAggregateScenario(t *testing.T) {
	records := []model.Record{
		rec(100, model.Food, model.Expense, day(2025, 1, 1)),
		rec(50, model.Food, model.Income, day(2025, 1, 1)),
		rec(30, model.Transport, model.Expense, day(2025, 1, 2)),
	}

	agg := Aggregate(records)

	// Both directions land in the same category bucket.
	assert.Equal(t, map[model.Category]float64{
		model.Food:      150,
		model.Transport: 30,
	}, agg.CategoryTotals)

	require.Len(t, agg.DailySeries, 2)
	assert.Equal(t, day(2025, 1, 1), agg.DailySeries[0].Date)
	assert.Equal(t, 50.0, agg.DailySeries[0].Income)
	assert.Equal(t, 100.0, agg.DailySeries[0].Expense)
	assert.Equal(t, day(2025, 1, 2), agg.DailySeries[1].Date)
	assert.Equal(t, 0.0, agg.DailySeries[1].Income)
	assert.Equal(t, 30.0, agg.DailySeries[1].Expense)
}

func TestAggregateSortsAsDatesNotStrings(t *testing.T) {
	// As strings "2025-10-01" < "2025-02-01"; as dates the order flips.
	records := []model.Record{
		rec(1, model.Other, model.Expense, day(2025, 10, 1)),
		rec(1, model.Other, model.Expense, day(2025, 2, 1)),
		rec(1, model.Other, model.Expense, day(2025, 1, 15)),
	}

	agg := Aggregate(records)

	require.Len(t, agg.DailySeries, 3)
	assert.Equal(t, day(2025, 1, 15), agg.DailySeries[0].Date)
	assert.Equal(t, day(2025, 2, 1), agg.DailySeries[1].Date)
	assert.Equal(t, day(2025, 10, 1), agg.DailySeries[2].Date)
}

func TestAggregateSeriesStrictlyAscendingNoDuplicates(t *testing.T) {
	records := []model.Record{
		rec(5, model.Food, model.Expense, day(2025, 3, 3).Add(9*time.Hour)),
		rec(7, model.Shopping, model.Expense, day(2025, 3, 3).Add(20*time.Hour)),
		rec(2, model.Food, model.Income, day(2025, 3, 1)),
		rec(4, model.Transport, model.Expense, day(2025, 3, 2)),
	}

	agg := Aggregate(records)

	for i := 1; i < len(agg.DailySeries); i++ {
		assert.True(t, agg.DailySeries[i-1].Date.Before(agg.DailySeries[i].Date),
			"series must be strictly ascending")
	}
	// Two records on the 3rd collapse into one entry.
	require.Len(t, agg.DailySeries, 3)
	assert.Equal(t, 12.0, agg.DailySeries[2].Expense)
}

func TestAggregateEveryRecordCountedOnce(t *testing.T) {
	records := []model.Record{
		rec(10, model.Food, model.Expense, day(2025, 5, 1)),
		rec(20, model.Food, model.Income, day(2025, 5, 2)),
		rec(30, model.Entertainment, model.Expense, day(2025, 5, 3)),
		rec(40, model.Shopping, model.Income, day(2025, 5, 3)),
		rec(50, model.Other, model.Expense, day(2025, 5, 4)),
	}

	agg := Aggregate(records)

	var bucketSum, recordSum float64
	for _, v := range agg.CategoryTotals {
		bucketSum += v
	}
	for _, r := range records {
		recordSum += r.Amount
	}
	assert.Equal(t, recordSum, bucketSum)
}

func TestAggregateDeterministic(t *testing.T) {
	records := []model.Record{
		rec(10, model.Food, model.Expense, day(2025, 5, 1)),
		rec(20, model.Transport, model.Income, day(2025, 5, 2)),
		rec(30, model.Food, model.Expense, day(2025, 5, 1)),
	}

	first := Aggregate(records)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Aggregate(records))
	}
}
