package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/SP-Mercury/voicebudget/internal/model"
	"github.com/SP-Mercury/voicebudget/internal/repository"
)

// State is the tracker's single authoritative mode. There is exactly one
// current state, so contradictory flag combinations ("editing" while
// "loading") cannot be represented.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateEditing
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateEditing:
		return "editing"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

var (
	// ErrBusy rejects a trigger while a remote call is outstanding. Two
	// in-flight mutations against the same collection could interleave
	// their responses and reorder the visible state.
	ErrBusy = errors.New("operation already in flight")

	// ErrClosed rejects triggers after teardown.
	ErrClosed = errors.New("tracker closed")

	// ErrNotEditing means a session operation was called with no record
	// in edit.
	ErrNotEditing = errors.New("no record in edit")

	// ErrNotLoaded means the target id is absent from the loaded collection.
	ErrNotLoaded = errors.New("record not in loaded collection")
)

// Repository is the remote store contract the tracker drives.
type Repository interface {
	FetchSummary(ctx context.Context, filter model.Filter) (*repository.Summary, error)
	Create(ctx context.Context, record model.Record) (model.Record, error)
	Update(ctx context.Context, id string, patch repository.RecordPatch) error
	Delete(ctx context.Context, id string) error
	UploadAudio(ctx context.Context, clip io.Reader, filename string) (*model.Record, error)
}

// Draft is the detached working copy of the record under edit. Fields stay
// as the user entered them; validation happens on save. Time holds either a
// bare date or a full RFC 3339 instant.
type Draft struct {
	Description string
	Amount      string
	Category    string
	Type        string
	Time        string
}

type editSession struct {
	targetID string
	draft    Draft
}

// Snapshot is the read-only view the rendering layer consumes. Records and
// aggregates are replaced wholesale on refresh, never mutated in place, so
// a snapshot stays internally consistent after it is taken.
type Snapshot struct {
	State      State
	Records    []model.Record
	Aggregates Aggregates
	Income     float64
	Expense    float64
	Net        float64
	Filter     model.Filter
	EditingID  string
	Draft      Draft
	Err        error
}

// Tracker owns the loaded record collection and the editing session, and
// funnels every trigger through the remote store. Each user session owns an
// independent instance.
type Tracker struct {
	repo Repository

	mu       sync.Mutex
	state    State
	records  []model.Record
	agg      Aggregates
	income   float64
	expense  float64
	net      float64
	filter   model.Filter
	session  *editSession
	lastErr  error
	hasData  bool
	busy     bool
	closed   bool
	seq      uint64
}

func NewTracker(repo Repository) *Tracker {
	return &Tracker{repo: repo, state: StateIdle}
}

// Snapshot returns the current view. After a failed refresh the previous
// records stay present: stale-but-present beats empty.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := Snapshot{
		State:      t.state,
		Records:    t.records,
		Aggregates: t.agg,
		Income:     t.income,
		Expense:    t.expense,
		Net:        t.net,
		Filter:     t.filter,
		Err:        t.lastErr,
	}
	if t.session != nil {
		snap.EditingID = t.session.targetID
		snap.Draft = t.session.draft
	}
	return snap
}

// Query replaces the active filter and reloads the collection. On failure
// the previously displayed data is retained alongside the error.
func (t *Tracker) Query(ctx context.Context, filter model.Filter) error {
	seq, _, err := t.begin()
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.filter = filter
	t.mu.Unlock()

	summary, err := t.repo.FetchSummary(ctx, filter)
	t.applyFetch(seq, summary, err)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

// BeginEdit copies the target record's fields into a detached working copy.
// Only one record is in edit at a time; starting over a live session
// discards the prior working copy, last writer wins.
func (t *Tracker) BeginEdit(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.busy {
		return ErrBusy
	}
	for _, r := range t.records {
		if r.ID != id {
			continue
		}
		t.session = &editSession{
			targetID: id,
			draft: Draft{
				Description: r.Description,
				Amount:      strconv.FormatFloat(r.Amount, 'f', -1, 64),
				Category:    string(r.Category),
				Type:        string(r.Type),
				// Edit inputs carry the calendar date only, as displayed.
				Time: model.Day(r.Time).Format("2006-01-02"),
			},
		}
		t.state = StateEditing
		return nil
	}
	return fmt.Errorf("begin edit %q: %w", id, ErrNotLoaded)
}

// EditField updates one field of the working copy. The committed collection
// is never touched.
func (t *Tracker) EditField(key, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session == nil {
		return ErrNotEditing
	}
	switch key {
	case "description":
		t.session.draft.Description = value
	case "amount":
		t.session.draft.Amount = value
	case "category":
		t.session.draft.Category = value
	case "type":
		t.session.draft.Type = value
	case "time":
		t.session.draft.Time = value
	default:
		return fmt.Errorf("edit field: unknown field %q", key)
	}
	return nil
}

// CancelEdit discards the working copy without a remote call.
func (t *Tracker) CancelEdit() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session == nil {
		return
	}
	t.session = nil
	if t.hasData {
		t.state = StateReady
	} else {
		t.state = StateIdle
	}
}

// Save validates the working copy, submits the update and re-queries the
// active filter so displayed aggregates reflect server-side truth rather
// than a locally patched guess. When the update fails the session survives
// untouched: the user does not lose their edits.
func (t *Tracker) Save(ctx context.Context) error {
	t.mu.Lock()
	if t.busy {
		t.mu.Unlock()
		return ErrBusy
	}
	if t.session == nil {
		t.mu.Unlock()
		return ErrNotEditing
	}
	id := t.session.targetID
	patch, err := t.session.draft.patch()
	if err != nil {
		t.lastErr = err
		t.mu.Unlock()
		return err
	}
	t.mu.Unlock()

	seq, _, err := t.begin()
	if err != nil {
		return err
	}

	if err := t.repo.Update(ctx, id, patch); err != nil {
		t.failEditing(seq, err)
		return fmt.Errorf("save: %w", err)
	}

	t.mu.Lock()
	t.session = nil
	t.mu.Unlock()
	return t.refresh(ctx, seq)
}

// Delete removes a record remotely, then re-queries. The collection is only
// updated after the remote confirms: no optimistic removal, no drift.
// A repeated delete reports repository.ErrNotFound; the record is gone
// either way, so the refresh still runs and the error is merely surfaced.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	seq, prev, err := t.begin()
	if err != nil {
		return err
	}

	delErr := t.repo.Delete(ctx, id)
	if delErr != nil && !errors.Is(delErr, repository.ErrNotFound) {
		t.failMutation(seq, prev, delErr)
		return fmt.Errorf("delete: %w", delErr)
	}

	if err := t.refresh(ctx, seq); err != nil {
		return err
	}
	if delErr != nil {
		slog.DebugContext(ctx, "delete target already gone", "id", id)
		return fmt.Errorf("delete: %w", delErr)
	}
	return nil
}

// Create validates and submits a new record, then re-queries.
func (t *Tracker) Create(ctx context.Context, record model.Record) error {
	if err := record.Validate(); err != nil {
		t.surface(err)
		return err
	}

	seq, prev, err := t.begin()
	if err != nil {
		return err
	}

	if _, err := t.repo.Create(ctx, record); err != nil {
		t.failMutation(seq, prev, err)
		return fmt.Errorf("create: %w", err)
	}
	return t.refresh(ctx, seq)
}

// Upload submits a captured audio clip for remote transcription. Its
// completion enqueues a summary refresh exactly like any other mutation,
// whether or not a record was produced synchronously.
func (t *Tracker) Upload(ctx context.Context, clip io.Reader, filename string) (*model.Record, error) {
	seq, prev, err := t.begin()
	if err != nil {
		return nil, err
	}

	record, err := t.repo.UploadAudio(ctx, clip, filename)
	if err != nil {
		t.failMutation(seq, prev, err)
		return nil, fmt.Errorf("upload: %w", err)
	}
	return record, t.refresh(ctx, seq)
}

// Close stops the tracker. Late-arriving responses are no longer applied.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.seq++
}

// begin claims the single operation slot and moves to Loading. The returned
// sequence number must accompany the eventual result; results carrying an
// older number are dropped.
func (t *Tracker) begin() (uint64, State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, StateIdle, ErrClosed
	}
	if t.busy {
		return 0, StateIdle, ErrBusy
	}
	prev := t.state
	t.busy = true
	t.state = StateLoading
	t.seq++
	return t.seq, prev, nil
}

// refresh re-queries the active filter and applies the result.
func (t *Tracker) refresh(ctx context.Context, seq uint64) error {
	t.mu.Lock()
	filter := t.filter
	t.mu.Unlock()

	summary, err := t.repo.FetchSummary(ctx, filter)
	t.applyFetch(seq, summary, err)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return nil
}

// applyFetch installs a fetch result: the record collection is replaced
// wholesale and aggregates recomputed. On failure previously loaded data
// stays visible next to the error.
func (t *Tracker) applyFetch(seq uint64, summary *repository.Summary, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if seq != t.seq {
		return // stale response, newer state owns the view
	}
	t.busy = false
	if err != nil {
		t.lastErr = err
		t.state = StateError
		return
	}

	t.records = summary.Records
	t.agg = Aggregate(summary.Records)
	t.income = summary.Income
	t.expense = summary.Expense
	t.net = summary.Net
	t.hasData = true
	t.lastErr = nil
	t.session = nil
	t.state = StateReady
}

// failEditing returns to Editing after a failed save: same session, error
// surfaced.
func (t *Tracker) failEditing(seq uint64, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if seq != t.seq {
		return
	}
	t.busy = false
	t.lastErr = err
	t.state = StateEditing
}

// failMutation restores the pre-mutation state after a failed remote call.
func (t *Tracker) failMutation(seq uint64, prev State, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if seq != t.seq {
		return
	}
	t.busy = false
	t.lastErr = err
	t.state = prev
}

// surface attaches an error to the current state without a transition.
func (t *Tracker) surface(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastErr = err
}

// patch validates the draft and renders it as an update payload. Every
// field is submitted; the time input may be a bare date, which picks up the
// noon-UTC anchor before transmission.
func (d Draft) patch() (repository.RecordPatch, error) {
	desc := strings.TrimSpace(d.Description)
	if desc == "" {
		return repository.RecordPatch{}, &model.ValidationError{Field: "description", Reason: "must not be empty"}
	}
	amount, err := model.ParseAmount(d.Amount)
	if err != nil {
		return repository.RecordPatch{}, err
	}
	category := model.Category(d.Category)
	if !category.Valid() {
		return repository.RecordPatch{}, &model.ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", d.Category)}
	}
	typ := model.Type(d.Type)
	if !typ.Valid() {
		return repository.RecordPatch{}, &model.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown type %q", d.Type)}
	}
	when, err := model.ParseTime(d.Time)
	if err != nil {
		return repository.RecordPatch{}, err
	}

	return repository.RecordPatch{
		Description: &desc,
		Amount:      &amount,
		Category:    &category,
		Type:        &typ,
		Time:        &when,
	}, nil
}
