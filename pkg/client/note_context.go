// Package client is a session-scoped cache over the note API.
//
// A NoteContext holds the notes of one signed-in user. Reads come from the
// cache; every write is a single HTTP call whose response is folded back into
// the cache only when the server accepted it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"listening-notes-be/internal/entity"
)

const notePath = "/api/note"

// ErrRequestPending is returned when another request of the same context is still in flight.
var ErrRequestPending = errors.New("client: request already pending")

// APIError is a non-200 answer from the note API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("note api: %d %s", e.Status, e.Message)
}

type Option func(*NoteContext)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(nc *NoteContext) {
		nc.httpClient = c
	}
}

type NoteContext struct {
	baseURL    string
	httpClient *http.Client

	mu      sync.Mutex
	token   string
	notes   []entity.NoteWithId
	pending bool
}

func NewNoteContext(baseURL, token string, opts ...Option) *NoteContext {
	nc := &NoteContext{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		token:      token,
		notes:      []entity.NoteWithId{},
	}
	for _, opt := range opts {
		opt(nc)
	}
	return nc
}

// Close ends the session: the cache is cleared and the token forgotten.
func (nc *NoteContext) Close() {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	nc.token = ""
	nc.notes = []entity.NoteWithId{}
}

// ListNotes returns a snapshot of the cached notes in server order.
func (nc *NoteContext) ListNotes() []entity.NoteWithId {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	out := make([]entity.NoteWithId, len(nc.notes))
	for i, n := range nc.notes {
		out[i] = cloneNote(n)
	}
	return out
}

func cloneNote(n entity.NoteWithId) entity.NoteWithId {
	if n.SubNotes != nil {
		subs := make([]entity.SubNote, len(n.SubNotes))
		copy(subs, n.SubNotes)
		n.SubNotes = subs
	}
	return n
}

func (nc *NoteContext) Loading() bool {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.pending
}

// Refresh replaces the cache with the server's list. Without a token it does nothing.
func (nc *NoteContext) Refresh(ctx context.Context) error {
	token, err := nc.begin()
	if err != nil || token == "" {
		return err
	}
	defer nc.end()

	var notes []entity.NoteWithId
	if err := nc.do(ctx, http.MethodGet, token, nil, nil, &notes); err != nil {
		return err
	}
	if notes == nil {
		notes = []entity.NoteWithId{}
	}

	nc.mu.Lock()
	nc.notes = notes
	nc.mu.Unlock()
	return nil
}

// AddNote creates note on the server and appends the stored copy to the cache.
func (nc *NoteContext) AddNote(ctx context.Context, note entity.Note) (bool, error) {
	token, err := nc.begin()
	if err != nil || token == "" {
		return false, err
	}
	defer nc.end()

	var created entity.NoteWithId
	if err := nc.do(ctx, http.MethodPut, token, note, nil, &created); err != nil {
		return false, err
	}

	nc.mu.Lock()
	nc.notes = append(nc.notes, cloneNote(created))
	nc.mu.Unlock()
	return true, nil
}

// UpdateNote overwrites note on the server and replaces the cached note with the same id.
func (nc *NoteContext) UpdateNote(ctx context.Context, note entity.NoteWithId) (bool, error) {
	token, err := nc.begin()
	if err != nil || token == "" {
		return false, err
	}
	defer nc.end()

	var updated entity.NoteWithId
	if err := nc.do(ctx, http.MethodPatch, token, note, nil, &updated); err != nil {
		return false, err
	}

	nc.mu.Lock()
	for i := range nc.notes {
		if nc.notes[i].Id == updated.Id {
			nc.notes[i] = cloneNote(updated)
		}
	}
	nc.mu.Unlock()
	return true, nil
}

// DeleteNote removes note on the server and drops it from the cache.
func (nc *NoteContext) DeleteNote(ctx context.Context, note entity.NoteWithId) (bool, error) {
	token, err := nc.begin()
	if err != nil || token == "" {
		return false, err
	}
	defer nc.end()

	headers := map[string]string{"id": note.Id}
	if err := nc.do(ctx, http.MethodDelete, token, nil, headers, nil); err != nil {
		return false, err
	}

	nc.mu.Lock()
	kept := nc.notes[:0]
	for _, n := range nc.notes {
		if n.Id != note.Id {
			kept = append(kept, n)
		}
	}
	nc.notes = kept
	nc.mu.Unlock()
	return true, nil
}

// begin claims the in-flight slot. An empty token means there is nothing to do.
func (nc *NoteContext) begin() (string, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	if nc.token == "" {
		return "", nil
	}
	if nc.pending {
		return "", ErrRequestPending
	}
	nc.pending = true
	return nc.token, nil
}

func (nc *NoteContext) end() {
	nc.mu.Lock()
	nc.pending = false
	nc.mu.Unlock()
}

func (nc *NoteContext) do(ctx context.Context, method, token string, body any, headers map[string]string, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode note: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, nc.baseURL+notePath, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := nc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, notePath, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
