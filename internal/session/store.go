// Package session keeps uploaded workbooks in memory for the duration
// of an editing session.
//
// A session treats its Workbook as an immutable value: every mutating
// operation builds a replacement Workbook and swaps it under the
// session mutex, so reconcile-and-merge is observed atomically and no
// reader ever sees a half-edited sheet. Nothing is persisted; closing
// a session discards the document.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/veemap/taskdash/internal/core"
)

// Session is one user's workbook plus their pending edits per sheet.
type Session struct {
	ID        string
	FileName  string
	CreatedAt time.Time

	mu         sync.Mutex
	lastAccess time.Time
	wb         *core.Workbook
	edits      map[string]*core.EditSet
}

// Snapshot returns the session's current Workbook. The returned value
// is immutable; later mutations swap in a new Workbook and never touch
// this one.
func (s *Session) Snapshot() *core.Workbook {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()
	return s.wb
}

// AddEdit records one pending cell edit for a sheet. The edit is
// validated against the sheet's columns and enum constraints but not
// applied; Reconcile applies the whole batch at once.
func (s *Session) AddEdit(sheet, rowID, column, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()

	es, err := s.editSetLocked(sheet)
	if err != nil {
		return err
	}
	return es.Set(rowID, column, value)
}

// CellEdit is one requested cell change, as received from the shell.
type CellEdit struct {
	RowID  string `json:"rowId"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

// AddEdits records a batch of pending edits for a sheet. The batch is
// validated as a whole before any edit is recorded: on error the
// sheet's EditSet is unchanged. Returns the number of edits recorded.
func (s *Session) AddEdits(sheet string, edits []CellEdit) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()

	t, err := s.wb.Table(sheet)
	if err != nil {
		return 0, err
	}

	// Dry run against a scratch set so a bad edit mid-batch cannot
	// leave the real set half-updated.
	scratch := core.NewEditSet(t)
	for _, e := range edits {
		if err := scratch.Set(e.RowID, e.Column, e.Value); err != nil {
			return 0, err
		}
	}

	es, err := s.editSetLocked(sheet)
	if err != nil {
		return 0, err
	}
	for _, e := range edits {
		if err := es.Set(e.RowID, e.Column, e.Value); err != nil {
			return 0, err
		}
	}
	return len(edits), nil
}

// PendingEdits returns the number of pending edits for a sheet.
func (s *Session) PendingEdits(sheet string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if es, ok := s.edits[sheet]; ok {
		return es.Len()
	}
	return 0
}

// ClearEdits discards all pending edits for a sheet and returns how
// many were dropped.
func (s *Session) ClearEdits(sheet string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()

	es, ok := s.edits[sheet]
	if !ok {
		return 0
	}
	n := es.Len()
	delete(s.edits, sheet)
	return n
}

// Reconcile applies every pending edit for a sheet to the workbook and
// swaps the result in. The swap is atomic: on error the prior workbook
// and the pending edits are left untouched. Returns the number of edits
// applied.
func (s *Session) Reconcile(sheet string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()

	es, err := s.editSetLocked(sheet)
	if err != nil {
		return 0, err
	}

	next, err := core.ReconcileIntoWorkbook(s.wb, sheet, es)
	if err != nil {
		return 0, err
	}

	n := es.Len()
	s.wb = next
	delete(s.edits, sheet) // consumed exactly once
	return n, nil
}

// AddSheet creates a new empty sheet seeded from an existing sheet's
// columns and swaps the grown workbook in.
func (s *Session) AddSheet(name, sourceSheet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()

	source, err := s.wb.Table(sourceSheet)
	if err != nil {
		return err
	}
	next, err := s.wb.AddSheet(name, source)
	if err != nil {
		return err
	}
	s.wb = next
	return nil
}

// editSetLocked returns the sheet's EditSet, creating one bound to the
// sheet's current table. Caller holds s.mu.
func (s *Session) editSetLocked(sheet string) (*core.EditSet, error) {
	if es, ok := s.edits[sheet]; ok {
		return es, nil
	}
	t, err := s.wb.Table(sheet)
	if err != nil {
		return nil, err
	}
	es := core.NewEditSet(t)
	s.edits[sheet] = es
	return es, nil
}

// Store holds all live sessions.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int
}

// NewStore creates a Store that expires sessions idle longer than ttl
// and refuses new sessions beyond max.
func NewStore(ttl time.Duration, max int) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		max:      max,
	}
}

// Create registers a new session around a freshly loaded workbook.
func (st *Store) Create(wb *core.Workbook, fileName string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.max > 0 && len(st.sessions) >= st.max {
		st.sweepLocked(time.Now())
		if len(st.sessions) >= st.max {
			return nil, ErrStoreFull
		}
	}

	now := time.Now()
	s := &Session{
		ID:         uuid.NewString(),
		FileName:   fileName,
		CreatedAt:  now,
		lastAccess: now,
		wb:         wb,
		edits:      make(map[string]*core.EditSet),
	}
	st.sessions[s.ID] = s
	return s, nil
}

// Get returns the session with the given ID. Returns a core
// NotFoundError when the session does not exist or has expired.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, &core.NotFoundError{Kind: "session", Name: id}
	}
	return s, nil
}

// Delete drops a session. Returns false when it did not exist.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep removes sessions idle longer than the store TTL and returns how
// many were dropped.
func (st *Store) Sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sweepLocked(now)
}

// StartSweeper runs a periodic expiry sweep until ctx is cancelled.
func (st *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || st.ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if dropped := st.Sweep(now); dropped > 0 {
					slog.Info("expired idle sessions", "count", dropped)
				}
			}
		}
	}()
}

func (st *Store) sweepLocked(now time.Time) int {
	if st.ttl <= 0 {
		return 0
	}
	dropped := 0
	for id, s := range st.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastAccess)
		s.mu.Unlock()
		if idle > st.ttl {
			delete(st.sessions, id)
			dropped++
		}
	}
	return dropped
}
