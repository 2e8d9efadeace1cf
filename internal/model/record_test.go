package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() Record {
	return Record{
		ID:          "r1",
		Description: "lunch",
		Amount:      12.5,
		Category:    Food,
		Type:        Expense,
		Time:        time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordValidate(t *testing.T) {
	assert.NoError(t, validRecord().Validate())

	cases := []struct {
		name   string
		mutate func(*Record)
		field  string
	}{
		{"empty description", func(r *Record) { r.Description = "" }, "description"},
		{"blank description", func(r *Record) { r.Description = "   " }, "description"},
		{"zero amount", func(r *Record) { r.Amount = 0 }, "amount"},
		{"negative amount", func(r *Record) { r.Amount = -3 }, "amount"},
		{"unknown category", func(r *Record) { r.Category = "groceries" }, "category"},
		{"unknown type", func(r *Record) { r.Type = "transfer" }, "type"},
		{"zero time", func(r *Record) { r.Time = time.Time{} }, "time"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRecord()
			tc.mutate(&r)
			err := r.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("12.5")
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)

	v, err = ParseAmount(" 100 ")
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)

	for _, bad := range []string{"", "abc", "0", "-5", "12,5"} {
		_, err := ParseAmount(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseTimeFullInstant(t *testing.T) {
	got, err := ParseTime("2025-06-10T18:30:00+08:00")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, time.Date(2025, 6, 10, 10, 30, 0, 0, time.UTC), got)
}

func TestParseTimeDateOnlyAnchorsToNoonUTC(t *testing.T) {
	got, err := ParseTime("2025-06-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC), got)

	// The anchored instant must truncate back to the same calendar date.
	assert.Equal(t, "2025-06-10", Day(got).Format("2006-01-02"))
}

func TestParseTimeRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "yesterday", "2025-13-40", "10/06/2025"} {
		_, err := ParseTime(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestDayTruncatesInUTC(t *testing.T) {
	// 23:30 UTC on the 1st is already the 2nd in UTC+8; bucketing is UTC.
	instant := time.Date(2025, 1, 1, 23, 30, 0, 0, time.UTC)
	inTaipei := instant.In(time.FixedZone("UTC+8", 8*3600))

	assert.Equal(t, Day(instant), Day(inTaipei))
	assert.Equal(t, "2025-01-01", Day(inTaipei).Format("2006-01-02"))
}

func TestCategoryColors(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid())
		assert.NotEqual(t, "#000000", c.Color())
	}
	assert.False(t, Category("groceries").Valid())
	assert.Equal(t, "#000000", Category("groceries").Color())

	assert.Equal(t, "#4CAF50", Food.Color())
	assert.Equal(t, "#2196F3", Transport.Color())
}
