package bookmarks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pfrederiksen/hackfind/internal/hackathon"
	"github.com/pfrederiksen/hackfind/internal/logger"
)

// Backend is durable storage for the serialized bookmark set.
// Load returns nil data and a nil error when nothing has been saved yet.
type Backend interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Store is a set of bookmarked record IDs backed by durable storage.
// A Store is not safe for concurrent use.
type Store struct {
	backend Backend
	ids     map[hackathon.ID]bool
}

// Open loads the bookmark set from backend. Empty or corrupt data yields an
// empty set; only a failure to read the backend is returned as an error.
func Open(backend Backend) (*Store, error) {
	s := &Store{
		backend: backend,
		ids:     make(map[hackathon.ID]bool),
	}

	data, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("loading bookmarks: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}

	var ids []hackathon.ID
	if err := json.Unmarshal(data, &ids); err != nil {
		logger.With("bookmarks", nil).Warn("Ignoring corrupt bookmark data", logger.Fields{
			"bytes": len(data),
		})
		return s, nil
	}

	for _, id := range ids {
		if id != "" {
			s.ids[id] = true
		}
	}

	return s, nil
}

// IsBookmarked reports whether id is in the set.
func (s *Store) IsBookmarked(id hackathon.ID) bool {
	return s.ids[id]
}

// Toggle flips the membership of id and persists the whole set.
// It returns the new membership. If saving fails the change is rolled back.
func (s *Store) Toggle(id hackathon.ID) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("bookmark ID cannot be empty")
	}

	on := !s.ids[id]
	s.set(id, on)

	if err := s.save(); err != nil {
		s.set(id, !on)
		return !on, err
	}

	logger.IncrCounter("bookmarks.toggles")
	return on, nil
}

func (s *Store) set(id hackathon.ID, on bool) {
	if on {
		s.ids[id] = true
	} else {
		delete(s.ids, id)
	}
}

// IDs returns the bookmarked IDs in sorted order.
func (s *Store) IDs() []hackathon.ID {
	ids := make([]hackathon.ID, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of bookmarks.
func (s *Store) Len() int {
	return len(s.ids)
}

// Filter returns the records whose IDs are bookmarked, in input order.
func (s *Store) Filter(records []*hackathon.Record) []*hackathon.Record {
	var out []*hackathon.Record
	for _, r := range records {
		if s.ids[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) save() error {
	data, err := json.Marshal(s.IDs())
	if err != nil {
		return fmt.Errorf("encoding bookmarks: %w", err)
	}
	if err := s.backend.Save(data); err != nil {
		return fmt.Errorf("saving bookmarks: %w", err)
	}
	return nil
}
