// Package store defines the record store the engine reads its collections
// from and writes its outputs to.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/kilianp07/soilmatch/core/model"
)

// Collection names one entity list in the store.
type Collection string

const (
	Sites     Collection = "sites"
	Matches   Collection = "matches"
	Schedules Collection = "schedules"
	Haulers   Collection = "haulers"
	Drivers   Collection = "drivers"
	Tickets   Collection = "tickets"
	Permits   Collection = "permits"
)

// Collections lists every known collection.
var Collections = []Collection{Sites, Matches, Schedules, Haulers, Drivers, Tickets, Permits}

// ErrUnknownCollection is returned for names outside Collections.
var ErrUnknownCollection = errors.New("store: unknown collection")

// Store is a key-value record store keyed by collection. Values are JSON
// documents; a missing collection reads as nil without error.
type Store interface {
	Get(ctx context.Context, c Collection) ([]byte, error)
	Set(ctx context.Context, c Collection, data []byte) error
}

// Known reports whether c is a known collection.
func Known(c Collection) bool {
	for _, k := range Collections {
		if k == c {
			return true
		}
	}
	return false
}

// Load decodes collection c into a slice of T.
func Load[T any](ctx context.Context, s Store, c Collection) ([]T, error) {
	raw, err := s.Get(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c, err)
	}
	return out, nil
}

// Save encodes items and writes them as collection c.
func Save[T any](ctx context.Context, s Store, c Collection, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}
	return s.Set(ctx, c, raw)
}

// Snapshot is a full point-in-time copy of every collection.
type Snapshot struct {
	Sites     []model.Site           `json:"sites"`
	Matches   []model.Match          `json:"matches"`
	Schedules []model.Schedule       `json:"schedules"`
	Haulers   []model.Hauler         `json:"haulers"`
	Drivers   []model.Driver         `json:"drivers"`
	Tickets   []model.DispatchTicket `json:"tickets"`
	Permits   []model.Permit         `json:"permits"`
}

// Seed writes every collection present in a JSON snapshot document.
// Collections absent from the document are left untouched.
func Seed(ctx context.Context, s Store, doc []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(doc, &raw); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	// Check the whole document before the first write.
	for name := range raw {
		if !Known(Collection(name)) {
			return fmt.Errorf("seed %q: %w", name, ErrUnknownCollection)
		}
	}
	for _, c := range Collections {
		data, ok := raw[string(c)]
		if !ok {
			continue
		}
		if err := s.Set(ctx, c, data); err != nil {
			return fmt.Errorf("seed %s: %w", c, err)
		}
	}
	return nil
}

// Dump reads every collection into a Snapshot.
func Dump(ctx context.Context, s Store) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Sites, err = Load[model.Site](ctx, s, Sites); err != nil {
		return snap, err
	}
	if snap.Matches, err = Load[model.Match](ctx, s, Matches); err != nil {
		return snap, err
	}
	if snap.Schedules, err = Load[model.Schedule](ctx, s, Schedules); err != nil {
		return snap, err
	}
	if snap.Haulers, err = Load[model.Hauler](ctx, s, Haulers); err != nil {
		return snap, err
	}
	if snap.Drivers, err = Load[model.Driver](ctx, s, Drivers); err != nil {
		return snap, err
	}
	if snap.Tickets, err = Load[model.DispatchTicket](ctx, s, Tickets); err != nil {
		return snap, err
	}
	if snap.Permits, err = Load[model.Permit](ctx, s, Permits); err != nil {
		return snap, err
	}
	return snap, nil
}

// MemoryStore keeps collections in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[Collection][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[Collection][]byte{}}
}

func (s *MemoryStore) Get(_ context.Context, c Collection) ([]byte, error) {
	if !Known(c) {
		return nil, ErrUnknownCollection
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[c]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(_ context.Context, c Collection, data []byte) error {
	if !Known(c) {
		return ErrUnknownCollection
	}
	if !json.Valid(data) {
		return fmt.Errorf("store: %s is not valid json", c)
	}
	s.mu.Lock()
	s.data[c] = append([]byte(nil), data...)
	s.mu.Unlock()
	return nil
}
