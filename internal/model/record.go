package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is a single transaction as stored by the remote API.
// The ID is assigned remotely on create and never changes afterwards.
type Record struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    Category  `json:"category"`
	Type        Type      `json:"type"`
	Time        time.Time `json:"time"`
}

// ValidationError reports a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the record against the rules the remote store enforces,
// so bad input is rejected before a round trip.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if r.Amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if !r.Category.Valid() {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", r.Category)}
	}
	if !r.Type.Valid() {
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown type %q", r.Type)}
	}
	if r.Time.IsZero() {
		return &ValidationError{Field: "time", Reason: "must be set"}
	}
	return nil
}

// ParseAmount coerces a numeric-looking string into a positive amount.
func ParseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &ValidationError{Field: "amount", Reason: "not a number"}
	}
	if v <= 0 {
		return 0, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	return v, nil
}

// dateOnly matches inputs carrying just a calendar date.
const dateOnly = "2006-01-02"

// ParseTime parses a timestamp input. Full RFC 3339 instants are taken as-is;
// a bare date is anchored to noon UTC of that day. Noon keeps the instant a
// safe distance from both midnights, so the displayed calendar date survives
// a round trip through the store regardless of offset handling. The same
// anchor applies to create and edit flows.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if d, err := time.Parse(dateOnly, s); err == nil {
		return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, &ValidationError{Field: "time", Reason: fmt.Sprintf("cannot parse %q", s)}
}

// Day truncates an instant to its UTC calendar date. All date bucketing in
// this module goes through here so records land in the same bucket the UI
// displays them under.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
