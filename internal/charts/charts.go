package charts

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/SP-Mercury/voicebudget/internal/model"
	"github.com/SP-Mercury/voicebudget/internal/service"
)

// Generator renders the derived aggregates as PNG images. It only consumes
// data the tracker already derived; nothing here feeds back into the core.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// CategoryPie renders flow per category using the fixed category palette.
// Returns nil when there is nothing to draw.
func (g *Generator) CategoryPie(totals map[model.Category]float64) ([]byte, error) {
	if len(totals) == 0 {
		return nil, nil
	}

	// Fixed category order keeps renders reproducible for the same input.
	values := make([]chart.Value, 0, len(totals))
	for _, category := range model.Categories() {
		amount, ok := totals[category]
		if !ok || amount <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %.2f", category, amount),
			Value: amount,
			Style: chart.Style{
				FillColor: colorOf(category),
			},
		})
	}
	if len(values) == 0 {
		return nil, nil
	}

	pie := chart.PieChart{
		Width:  600,
		Height: 450,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    30,
				Left:   30,
				Right:  30,
				Bottom: 30,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category pie: %w", err)
	}
	return buffer.Bytes(), nil
}

// IncomeExpenseChart renders the daily income and expense lines.
// Returns nil when the series is too short for a line.
func (g *Generator) IncomeExpenseChart(series []service.DailyPoint) ([]byte, error) {
	if len(series) < 2 {
		// go-chart needs at least two x values for a time series.
		return nil, nil
	}

	xValues := make([]time.Time, len(series))
	incomeValues := make([]float64, len(series))
	expenseValues := make([]float64, len(series))
	for i, point := range series {
		xValues[i] = point.Date
		incomeValues[i] = point.Income
		expenseValues[i] = point.Expense
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    20,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "income",
				XValues: xValues,
				YValues: incomeValues,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("00C49F"),
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "expense",
				XValues: xValues,
				YValues: expenseValues,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("FF8042"),
					StrokeWidth: 2,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render income/expense chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// SortedCategories returns the categories present in totals, largest flow
// first, for callers printing a legend next to the image.
func SortedCategories(totals map[model.Category]float64) []model.Category {
	out := make([]model.Category, 0, len(totals))
	for _, c := range model.Categories() {
		if _, ok := totals[c]; ok {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return totals[out[i]] > totals[out[j]]
	})
	return out
}

// colorOf converts the model's hex palette entry for go-chart.
func colorOf(c model.Category) drawing.Color {
	hex := c.Color()
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	return drawing.ColorFromHex(hex)
}
