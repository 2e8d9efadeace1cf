package charts

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SP-Mercury/voicebudget/internal/model"
	"github.com/SP-Mercury/voicebudget/internal/service"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func TestCategoryPie(t *testing.T) {
	g := NewGenerator()

	png, err := g.CategoryPie(map[model.Category]float64{
		model.Food:      150,
		model.Transport: 30,
	})
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.True(t, bytes.HasPrefix(png, pngHeader))
}

func TestCategoryPieEmpty(t *testing.T) {
	g := NewGenerator()

	png, err := g.CategoryPie(nil)
	require.NoError(t, err)
	assert.Nil(t, png)

	png, err = g.CategoryPie(map[model.Category]float64{model.Food: 0})
	require.NoError(t, err)
	assert.Nil(t, png)
}

func TestIncomeExpenseChart(t *testing.T) {
	g := NewGenerator()

	series := []service.DailyPoint{
		{Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Income: 50, Expense: 100},
		{Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Expense: 30},
	}
	png, err := g.IncomeExpenseChart(series)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.True(t, bytes.HasPrefix(png, pngHeader))
}

func TestIncomeExpenseChartTooShort(t *testing.T) {
	g := NewGenerator()

	png, err := g.IncomeExpenseChart(nil)
	require.NoError(t, err)
	assert.Nil(t, png)

	png, err = g.IncomeExpenseChart([]service.DailyPoint{
		{Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Income: 1},
	})
	require.NoError(t, err)
	assert.Nil(t, png)
}

func TestSortedCategories(t *testing.T) {
	got := SortedCategories(map[model.Category]float64{
		model.Transport: 30,
		model.Food:      150,
		model.Other:     90,
	})
	assert.Equal(t, []model.Category{model.Food, model.Other, model.Transport}, got)
}
