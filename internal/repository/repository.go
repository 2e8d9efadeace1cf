package repository

import (
	"time"

	"github.com/SP-Mercury/voicebudget/internal/model"
)

// Summary is the remote store's answer to a filtered query: the matching
// records plus the server-computed scalars. The store may omit zero-valued
// aggregates, so all fields default cleanly.
type Summary struct {
	Records []model.Record `json:"records"`
	Income  float64        `json:"income"`
	Expense float64        `json:"expense"`
	Net     float64        `json:"total"`
}

// RecordPatch carries only the fields an update actually changes.
// Nil means "leave as is".
type RecordPatch struct {
	Description *string
	Amount      *float64
	Category    *model.Category
	Type        *model.Type
	Time        *time.Time
}

// body renders the patch as the wire payload. Time is always a fully
// qualified RFC 3339 UTC instant, never a bare date; the store's parser is
// strict and this is the one place that guarantees it.
func (p RecordPatch) body() map[string]any {
	out := map[string]any{}
	if p.Description != nil {
		out["description"] = *p.Description
	}
	if p.Amount != nil {
		out["amount"] = *p.Amount
	}
	if p.Category != nil {
		out["category"] = *p.Category
	}
	if p.Type != nil {
		out["type"] = *p.Type
	}
	if p.Time != nil {
		out["time"] = p.Time.UTC().Format(time.RFC3339)
	}
	return out
}
