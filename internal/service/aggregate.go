package service

import (
	"sort"
	"time"

	"github.com/SP-Mercury/voicebudget/internal/model"
)

// DailyPoint is one calendar day of the income/expense time series.
type DailyPoint struct {
	Date    time.Time
	Income  float64
	Expense float64
}

// Aggregates holds everything derived from a loaded record set. Derived
// data is recomputed after every successful fetch, never persisted.
type Aggregates struct {
	CategoryTotals map[model.Category]float64
	DailySeries    []DailyPoint
}

// Aggregate folds a record collection into category totals and a
// date-bucketed income/expense series. Income and expense both add into
// their category's bucket: the pie answers "where does money move", not
// "net per category". The series has one entry per distinct UTC calendar
// date, sorted ascending by the date value itself, not its string form.
//
// The result depends only on the input collection.
func Aggregate(records []model.Record) Aggregates {
	totals := make(map[model.Category]float64)
	daily := make(map[time.Time]*DailyPoint)

	for _, r := range records {
		totals[r.Category] += r.Amount

		day := model.Day(r.Time)
		point, ok := daily[day]
		if !ok {
			point = &DailyPoint{Date: day}
			daily[day] = point
		}
		switch r.Type {
		case model.Income:
			point.Income += r.Amount
		default:
			point.Expense += r.Amount
		}
	}

	series := make([]DailyPoint, 0, len(daily))
	for _, point := range daily {
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	return Aggregates{CategoryTotals: totals, DailySeries: series}
}
