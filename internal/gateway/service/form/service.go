// Package form implements the submission controller and owns the
// in-memory record list. State mutations are serialized by the service
// mutex and the list is replaced whole on every change, so readers
// always see a consistent snapshot.
package form

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"riskprotocol/internal/gateway/repository/drive"
	"riskprotocol/internal/llm"
	"riskprotocol/internal/protocol"
	"riskprotocol/internal/render"
)

// State is the controller's submission state.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateError      State = "error"
)

// ErrEmptyReport rejects empty or whitespace-only submissions before any
// network call happens.
var ErrEmptyReport = errors.New("por favor, descreva a ocorrência")

// ErrBusy rejects a submission while another one is in flight.
var ErrBusy = errors.New("já existe uma geração em andamento")

var ErrNotFound = errors.New("protocolo não encontrado")

// exportCacheSize bounds the cached PDF renderings. Records are immutable,
// so a cached export can never go stale; entries are dropped on delete.
const exportCacheSize = 32

type exportEntry struct {
	data []byte
	name string
}

// Snapshot is a consistent view of the controller: submission state plus
// the current list, newest first.
type Snapshot struct {
	State   State             `json:"state"`
	Error   string            `json:"error,omitempty"`
	Draft   string            `json:"draft,omitempty"`
	Records []protocol.Record `json:"records"`
}

// Service owns all protocol state for the session.
type Service struct {
	llm         llm.Client
	drive       drive.Store
	shareNumber string
	now         func() time.Time
	exports     *lru.Cache[string, exportEntry]

	notifyMu sync.RWMutex
	notify   func()

	mu        sync.Mutex
	state     State
	lastError string
	draft     string
	records   []protocol.Record
}

func New(llmClient llm.Client, driveStore drive.Store, shareNumber string) *Service {
	exports, _ := lru.New[string, exportEntry](exportCacheSize)
	return &Service{
		llm:         llmClient,
		drive:       driveStore,
		shareNumber: shareNumber,
		now:         time.Now,
		exports:     exports,
		state:       StateIdle,
	}
}

// SetNotify registers the callback invoked after every list or state
// change (the events stream subscribes here).
func (s *Service) SetNotify(fn func()) {
	s.notifyMu.Lock()
	s.notify = fn
	s.notifyMu.Unlock()
}

func (s *Service) broadcast() {
	s.notifyMu.RLock()
	fn := s.notify
	s.notifyMu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Submit runs one generation. Empty input is rejected synchronously and
// never reaches the client; only one submission may be in flight. On
// success the new record is prepended and the draft input cleared; on
// failure the state carries the message and the input is preserved. The
// list is only ever extended by a complete record or not at all.
func (s *Service) Submit(ctx context.Context, report string) (*protocol.Record, error) {
	if strings.TrimSpace(report) == "" {
		return nil, ErrEmptyReport
	}

	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.state = StateSubmitting
	s.lastError = ""
	s.mu.Unlock()
	s.broadcast()

	draft, err := s.llm.GenerateProtocol(ctx, report)

	s.mu.Lock()
	if err != nil {
		s.state = StateError
		s.lastError = err.Error()
		s.draft = report
		s.mu.Unlock()
		s.broadcast()
		return nil, err
	}
	rec := protocol.NewRecord(report, *draft, s.now())
	next := make([]protocol.Record, 0, len(s.records)+1)
	next = append(next, rec)
	next = append(next, s.records...)
	s.records = next
	s.state = StateIdle
	s.draft = ""
	s.mu.Unlock()
	s.broadcast()
	return &rec, nil
}

// Delete removes exactly the record with the given id, preserving the
// relative order of the rest.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	next := make([]protocol.Record, 0, len(s.records))
	for _, rec := range s.records {
		if rec.ID != id {
			next = append(next, rec)
		}
	}
	if len(next) == len(s.records) {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.records = next
	s.mu.Unlock()
	s.exports.Remove(id)
	s.broadcast()
	return nil
}

// Snapshot returns the current state with a copied record slice.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]protocol.Record, len(s.records))
	copy(records, s.records)
	return Snapshot{
		State:   s.state,
		Error:   s.lastError,
		Draft:   s.draft,
		Records: records,
	}
}

// Record looks a record up by id.
func (s *Service) Record(id string) (*protocol.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			rec := s.records[i]
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

// ClipboardText renders the full protocol text for one record.
func (s *Service) ClipboardText(id string) (string, error) {
	rec, err := s.Record(id)
	if err != nil {
		return "", err
	}
	return render.ProtocolText(rec), nil
}

// Summary returns the sanitized quick-view fragments for one record: the
// truncated technical description and the first immediate action (or its
// fixed fallback), both as emphasis HTML.
func (s *Service) Summary(id string) (description, action string, err error) {
	rec, err := s.Record(id)
	if err != nil {
		return "", "", err
	}
	return render.SummaryDescriptionHTML(rec), render.SummaryActionHTML(rec), nil
}

// Share returns the abbreviated message and its deep link.
func (s *Service) Share(id string) (message, link string, err error) {
	rec, err := s.Record(id)
	if err != nil {
		return "", "", err
	}
	return render.ShareMessage(rec), render.ShareLink(rec, s.shareNumber), nil
}

// Export renders the record as a PDF, caching the result per id.
func (s *Service) Export(id string) ([]byte, string, error) {
	rec, err := s.Record(id)
	if err != nil {
		return nil, "", err
	}
	if entry, ok := s.exports.Get(id); ok {
		return entry.data, entry.name, nil
	}
	data, name, err := render.PDF(rec, s.now())
	if err != nil {
		return nil, "", err
	}
	s.exports.Add(id, exportEntry{data: data, name: name})
	return data, name, nil
}

// Upload pushes the record to the cloud store. The record list is never
// affected by the outcome.
func (s *Service) Upload(ctx context.Context, id string) error {
	rec, err := s.Record(id)
	if err != nil {
		return err
	}
	return s.drive.Upload(ctx, rec)
}
