package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go"

	"github.com/SP-Mercury/voicebudget/internal/model"
)

// HTTPRepository talks to the record store's JSON API. Paths and methods are
// a compatibility contract with the existing store, not something this
// client negotiates.
type HTTPRepository struct {
	baseURL string
	client  *http.Client
	retries uint
}

// NewHTTPRepository creates a client for the store at baseURL.
// retries only applies to summary fetches; mutations are never replayed.
func NewHTTPRepository(baseURL string, timeout time.Duration, retries uint) *HTTPRepository {
	if retries == 0 {
		retries = 1
	}
	return &HTTPRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		retries: retries,
	}
}

// FetchSummary queries records matching the filter together with the
// server-computed income/expense/net scalars. Transport failures and 5xx
// responses are retried; a fetch is safe to repeat.
func (r *HTTPRepository) FetchSummary(ctx context.Context, filter model.Filter) (*Summary, error) {
	var summary *Summary

	err := retry.Do(
		func() error {
			body, status, err := r.do(ctx, http.MethodGet, "/api/records/summary", filter.Values(), nil, "")
			if err != nil {
				return err
			}
			if status < 200 || status >= 300 {
				return r.classify("fetch summary", status, body)
			}

			s := &Summary{}
			if err := json.Unmarshal(body, s); err != nil {
				return &RemoteError{Op: "fetch summary", Status: status, Detail: fmt.Sprintf("malformed response: %v", err)}
			}
			if s.Records == nil {
				s.Records = []model.Record{}
			}
			summary = s
			return nil
		},
		retry.Attempts(r.retries),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return false
			}
			return retryable(err)
		}),
	)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "fetched summary",
		"records", len(summary.Records),
		"income", summary.Income,
		"expense", summary.Expense)
	return summary, nil
}

// Create submits a new record and returns it with the store-assigned id.
func (r *HTTPRepository) Create(ctx context.Context, record model.Record) (model.Record, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return model.Record{}, fmt.Errorf("create record: %w", err)
	}

	body, status, err := r.do(ctx, http.MethodPost, "/api/records", nil, bytes.NewReader(payload), "application/json")
	if err != nil {
		return model.Record{}, err
	}
	if status < 200 || status >= 300 {
		return model.Record{}, r.classify("create record", status, body)
	}

	var created model.Record
	if err := json.Unmarshal(body, &created); err != nil {
		return model.Record{}, &RemoteError{Op: "create record", Status: status, Detail: fmt.Sprintf("malformed response: %v", err)}
	}
	slog.DebugContext(ctx, "created record", "id", created.ID)
	return created, nil
}

// Update submits the changed fields for an existing record.
func (r *HTTPRepository) Update(ctx context.Context, id string, patch RecordPatch) error {
	payload, err := json.Marshal(patch.body())
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}

	body, status, err := r.do(ctx, http.MethodPut, "/api/records/"+url.PathEscape(id), nil, bytes.NewReader(payload), "application/json")
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return r.classify("update record", status, body)
	}
	slog.DebugContext(ctx, "updated record", "id", id)
	return nil
}

// Delete removes a record by id. A missing id reports ErrNotFound; callers
// treat that as already satisfied, not as a crash.
func (r *HTTPRepository) Delete(ctx context.Context, id string) error {
	body, status, err := r.do(ctx, http.MethodDelete, "/api/records/"+url.PathEscape(id), nil, nil, "")
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return r.classify("delete record", status, body)
	}
	slog.DebugContext(ctx, "deleted record", "id", id)
	return nil
}

// UploadAudio submits a captured clip for remote transcription. When the
// pipeline produces a record synchronously it is returned; a bare processing
// acknowledgment yields nil.
func (r *HTTPRepository) UploadAudio(ctx context.Context, clip io.Reader, filename string) (*model.Record, error) {
	buf := &bytes.Buffer{}
	form := multipart.NewWriter(buf)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}
	if _, err := io.Copy(part, clip); err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}

	body, status, err := r.do(ctx, http.MethodPost, "/api/upload", nil, buf, form.FormDataContentType())
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, r.classify("upload audio", status, body)
	}

	if len(body) == 0 {
		return nil, nil
	}
	var resp struct {
		Record *model.Record `json:"record"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &RemoteError{Op: "upload audio", Status: status, Detail: fmt.Sprintf("malformed response: %v", err)}
	}
	if resp.Record != nil {
		slog.DebugContext(ctx, "upload produced record", "id", resp.Record.ID)
	}
	return resp.Record, nil
}

// do performs one request and returns the raw body and status. Transport
// failures come back as *NetworkError; status handling is the caller's job.
func (r *HTTPRepository) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) ([]byte, int, error) {
	u := r.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &NetworkError{Op: method + " " + path, Err: err}
	}
	return data, resp.StatusCode, nil
}

// classify maps a non-success response onto the error taxonomy.
func (r *HTTPRepository) classify(op string, status int, body []byte) error {
	detail := strings.TrimSpace(string(body))
	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		reason := detail
		if reason == "" {
			reason = "rejected by remote store"
		}
		return &model.ValidationError{Field: "record", Reason: reason}
	default:
		return &RemoteError{Op: op, Status: status, Detail: detail}
	}
}

// retryable reports whether a failed attempt is worth repeating: transport
// errors and server-side trouble, never 4xx.
func retryable(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Status >= 500
	}
	return false
}
