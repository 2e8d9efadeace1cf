package model

// Category is the closed set of spending buckets the remote store accepts.
type Category string

const (
	Food          Category = "food"
	Transport     Category = "transport"
	Entertainment Category = "entertainment"
	Shopping      Category = "shopping"
	Other         Category = "other"
)

// Type marks the direction of a transaction.
type Type string

const (
	Income  Type = "income"
	Expense Type = "expense"
)

// categoryColors is the fixed presentation palette. Charts key off it, so
// the mapping is part of the data contract, not a UI detail.
var categoryColors = map[Category]string{
	Food:          "#4CAF50",
	Transport:     "#2196F3",
	Entertainment: "#9C27B0",
	Shopping:      "#FF9800",
	Other:         "#9E9E9E",
}

// Categories returns all valid categories in display order.
func Categories() []Category {
	return []Category{Food, Transport, Entertainment, Shopping, Other}
}

func (c Category) Valid() bool {
	_, ok := categoryColors[c]
	return ok
}

// Color returns the presentation color as a hex string. Unknown categories
// fall back to black rather than silently reusing a real bucket's color.
func (c Category) Color() string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return "#000000"
}

func (t Type) Valid() bool {
	return t == Income || t == Expense
}
