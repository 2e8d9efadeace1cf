// Command voicebudget drives the record tracker from the terminal: query,
// add, edit, delete and voice-clip upload, with optional chart output.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/SP-Mercury/voicebudget/internal/charts"
	"github.com/SP-Mercury/voicebudget/internal/config"
	"github.com/SP-Mercury/voicebudget/internal/logging"
	"github.com/SP-Mercury/voicebudget/internal/model"
	"github.com/SP-Mercury/voicebudget/internal/repository"
	"github.com/SP-Mercury/voicebudget/internal/service"
)

// appContext holds what every command needs.
type appContext struct {
	tracker *service.Tracker
	charts  *charts.Generator
}

var cli struct {
	Summary summaryCmd `cmd:"" help:"Query records and show category totals and running totals."`
	Add     addCmd     `cmd:"" help:"Add a record manually."`
	Edit    editCmd    `cmd:"" help:"Edit fields of an existing record."`
	Delete  deleteCmd  `cmd:"" help:"Delete a record by id."`
	Upload  uploadCmd  `cmd:"" help:"Upload a recorded audio clip for transcription."`
}

type summaryCmd struct {
	Year  int `help:"Filter by year."`
	Month int `help:"Filter by month (1-12)."`
	Day   int `help:"Filter by day of month."`

	PieOut    string `help:"Write the category pie chart PNG to this path."`
	SeriesOut string `help:"Write the income/expense chart PNG to this path."`
}

func (c *summaryCmd) Run(app *appContext) error {
	ctx := context.Background()
	filter := model.Filter{Year: c.Year, Month: c.Month, Day: c.Day}
	if err := app.tracker.Query(ctx, filter); err != nil {
		return err
	}

	snap := app.tracker.Snapshot()
	printSummary(snap)

	if c.PieOut != "" {
		png, err := app.charts.CategoryPie(snap.Aggregates.CategoryTotals)
		if err != nil {
			return err
		}
		if err := writePNG(c.PieOut, png); err != nil {
			return err
		}
	}
	if c.SeriesOut != "" {
		png, err := app.charts.IncomeExpenseChart(snap.Aggregates.DailySeries)
		if err != nil {
			return err
		}
		if err := writePNG(c.SeriesOut, png); err != nil {
			return err
		}
	}
	return nil
}

type addCmd struct {
	Description string `arg:"" help:"What the money was for."`
	Amount      string `arg:"" help:"Positive amount."`
	Category    string `required:"" enum:"food,transport,entertainment,shopping,other" help:"Category bucket."`
	Type        string `default:"expense" enum:"income,expense" help:"Transaction direction."`
	Time        string `help:"Timestamp, RFC 3339 or a bare date (defaults to today)."`
}

func (c *addCmd) Run(app *appContext) error {
	ctx := context.Background()

	amount, err := model.ParseAmount(c.Amount)
	if err != nil {
		return err
	}
	input := c.Time
	if input == "" {
		input = model.Day(time.Now()).Format("2006-01-02")
	}
	when, err := model.ParseTime(input)
	if err != nil {
		return err
	}

	record := model.Record{
		Description: c.Description,
		Amount:      amount,
		Category:    model.Category(c.Category),
		Type:        model.Type(c.Type),
		Time:        when,
	}
	if err := app.tracker.Create(ctx, record); err != nil {
		return err
	}
	printSummary(app.tracker.Snapshot())
	return nil
}

type editCmd struct {
	ID string `arg:"" help:"Id of the record to edit."`

	Description string `help:"New description."`
	Amount      string `help:"New amount."`
	Category    string `help:"New category."`
	Type        string `help:"New type."`
	Time        string `help:"New timestamp or bare date."`
}

func (c *editCmd) Run(app *appContext) error {
	ctx := context.Background()

	// The session edits a loaded record, so load the collection first.
	if err := app.tracker.Query(ctx, model.Filter{}); err != nil {
		return err
	}
	if err := app.tracker.BeginEdit(c.ID); err != nil {
		return err
	}

	fields := map[string]string{
		"description": c.Description,
		"amount":      c.Amount,
		"category":    c.Category,
		"type":        c.Type,
		"time":        c.Time,
	}
	for key, value := range fields {
		if value == "" {
			continue
		}
		if err := app.tracker.EditField(key, value); err != nil {
			app.tracker.CancelEdit()
			return err
		}
	}

	if err := app.tracker.Save(ctx); err != nil {
		return err
	}
	printSummary(app.tracker.Snapshot())
	return nil
}

type deleteCmd struct {
	ID string `arg:"" help:"Id of the record to delete."`
}

func (c *deleteCmd) Run(app *appContext) error {
	err := app.tracker.Delete(context.Background(), c.ID)
	if err != nil {
		return err
	}
	printSummary(app.tracker.Snapshot())
	return nil
}

type uploadCmd struct {
	File string `arg:"" type:"existingfile" help:"Path of the recorded clip (e.g. voice.webm)."`
}

func (c *uploadCmd) Run(app *appContext) error {
	ctx := context.Background()

	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	record, err := app.tracker.Upload(ctx, f, "voice.webm")
	if err != nil {
		return err
	}
	if record != nil {
		fmt.Printf("transcribed: %s  %.2f  %s/%s  %s\n",
			record.Description, record.Amount, record.Category, record.Type,
			model.Day(record.Time).Format("2006-01-02"))
	} else {
		fmt.Println("clip accepted, processing asynchronously")
	}
	printSummary(app.tracker.Snapshot())
	return nil
}

func printSummary(snap service.Snapshot) {
	for _, r := range snap.Records {
		fmt.Printf("%-36s  %-10s  %-13s  %-7s  %8.2f  %s\n",
			r.ID, model.Day(r.Time).Format("2006-01-02"), r.Category, r.Type, r.Amount, r.Description)
	}
	fmt.Printf("income: %.2f | expense: %.2f | net: %.2f\n", snap.Income, snap.Expense, snap.Net)
	for _, category := range charts.SortedCategories(snap.Aggregates.CategoryTotals) {
		fmt.Printf("  %-13s %10.2f\n", category, snap.Aggregates.CategoryTotals[category])
	}
}

func writePNG(path string, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return os.WriteFile(path, data, 0644)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(logging.Config{
		Level: logging.ParseLevel(cfg.LogLevel),
		JSON:  cfg.LogJSON,
	})

	repo := repository.NewHTTPRepository(cfg.APIBaseURL, cfg.HTTPTimeout, cfg.RetryAttempts)
	app := &appContext{
		tracker: service.NewTracker(repo),
		charts:  charts.NewGenerator(),
	}
	defer app.tracker.Close()

	ctx := kong.Parse(&cli,
		kong.Name("voicebudget"),
		kong.Description("Personal finance tracker client for the voice budget API."),
	)
	ctx.FatalIfErrorf(ctx.Run(app))
}
