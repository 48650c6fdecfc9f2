// Package loadstore keeps the in-memory set of production loads the service
// schedules. It is the only mutable state in the process; the engine itself
// receives copies and stays pure.
package loadstore

import (
	"encoding/json"
	"errors"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Cesliva/quant-sub005/core/model"
	"github.com/Cesliva/quant-sub005/internal/eventbus"
)

var (
	ErrNotFound = errors.New("load not found")
	// ErrProjectManaged is returned when deleting a project-derived load;
	// those disappear when the project sync stops sending them.
	ErrProjectManaged = errors.New("project-derived loads cannot be deleted")
	ErrBadDate        = errors.New("date must be formatted YYYY-MM-DD")
	ErrNegativeHours  = errors.New("hours must be non-negative")
)

// ChangeKind names what happened to a load.
type ChangeKind string

const (
	ChangePut           ChangeKind = "put"
	ChangeDelete        ChangeKind = "delete"
	ChangeOverrideSet   ChangeKind = "override-set"
	ChangeOverrideClear ChangeKind = "override-clear"
)

// ChangeEvent is published on the bus after every successful mutation.
type ChangeEvent struct {
	Kind   ChangeKind
	LoadID string
	Date   string
	Hours  float64
}

// Store is a mutex-guarded load collection with change notifications.
type Store struct {
	mu   sync.RWMutex
	data map[string]model.Load
	bus  *eventbus.Bus[ChangeEvent]
}

// New creates an empty Store publishing changes on the given bus.
func New(bus *eventbus.Bus[ChangeEvent]) *Store {
	return &Store{data: map[string]model.Load{}, bus: bus}
}

// Seed loads an initial set of loads from a JSON file. Entries without an ID
// get one assigned. Returns the number of loads loaded.
func (s *Store) Seed(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var loads []model.Load
	if err := json.Unmarshal(raw, &loads); err != nil {
		return 0, err
	}
	s.mu.Lock()
	for _, l := range loads {
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		s.data[l.ID] = l.Clone()
	}
	n := len(s.data)
	s.mu.Unlock()
	return n, nil
}

// List returns copies of all loads ordered by ID.
func (s *Store) List() []model.Load {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Load, 0, len(s.data))
	for _, l := range s.data {
		res = append(res, l.Clone())
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// Get returns a copy of one load.
func (s *Store) Get(id string) (model.Load, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.data[id]
	if !ok {
		return model.Load{}, false
	}
	return l.Clone(), true
}

// Put inserts or replaces a load. A missing ID marks a freshly entered
// manual load and gets a UUID. The stored (possibly completed) load is
// returned.
func (s *Store) Put(l model.Load) model.Load {
	if l.ID == "" {
		l.ID = uuid.NewString()
		if l.Source == "" {
			l.Source = model.SourceManual
		}
	}
	cp := l.Clone()
	s.mu.Lock()
	s.data[cp.ID] = cp
	s.mu.Unlock()
	s.publish(ChangeEvent{Kind: ChangePut, LoadID: cp.ID})
	return cp.Clone()
}

// Delete removes a manual load. Project-derived loads are refused.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	l, ok := s.data[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if !l.Deletable() {
		s.mu.Unlock()
		return ErrProjectManaged
	}
	delete(s.data, id)
	s.mu.Unlock()
	s.publish(ChangeEvent{Kind: ChangeDelete, LoadID: id})
	return nil
}

// SetOverride records an exact hour value for one load on one date. This is
// the single write path the editable week grid uses.
func (s *Store) SetOverride(id, date string, hours float64) error {
	if _, err := time.ParseInLocation(model.DateLayout, date, time.UTC); err != nil {
		return ErrBadDate
	}
	if hours < 0 {
		return ErrNegativeHours
	}
	s.mu.Lock()
	l, ok := s.data[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if l.Overrides == nil {
		l.Overrides = map[string]float64{}
	}
	l.Overrides[date] = hours
	s.data[id] = l
	s.mu.Unlock()
	s.publish(ChangeEvent{Kind: ChangeOverrideSet, LoadID: id, Date: date, Hours: hours})
	return nil
}

// ClearOverride removes a per-day correction, restoring automatic
// distribution for that date.
func (s *Store) ClearOverride(id, date string) error {
	s.mu.Lock()
	l, ok := s.data[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(l.Overrides, date)
	s.data[id] = l
	s.mu.Unlock()
	s.publish(ChangeEvent{Kind: ChangeOverrideClear, LoadID: id, Date: date})
	return nil
}

func (s *Store) publish(ev ChangeEvent) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}
