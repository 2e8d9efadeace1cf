package model

import (
	"net/url"
	"strconv"
)

// Filter narrows which records the remote store returns. A zero field means
// "match any value", not "match zero"; unset fields are omitted from the
// query entirely. The store applies the filter, the client never re-filters.
type Filter struct {
	Year  int
	Month int
	Day   int
}

// Values renders the set fields as query parameters.
func (f Filter) Values() url.Values {
	params := url.Values{}
	if f.Year != 0 {
		params.Set("year", strconv.Itoa(f.Year))
	}
	if f.Month != 0 {
		params.Set("month", strconv.Itoa(f.Month))
	}
	if f.Day != 0 {
		params.Set("day", strconv.Itoa(f.Day))
	}
	return params
}

// IsZero reports whether no criteria are set.
func (f Filter) IsZero() bool {
	return f.Year == 0 && f.Month == 0 && f.Day == 0
}
