// Package history persists per-(prompt, provider) usage and timing
// metadata between runs. The file is the durable artifact the dashboard
// reads to compute cost and latency captions.
package history

import (
	"encoding/json"
	"fmt"
	"os"

	"promptarena/internal/provider"
)

// Entry is what survives of one completed pair: the vendor-shaped token
// counts and the wall-clock seconds the call took.
type Entry struct {
	Usage       provider.Usage `json:"usage"`
	TimeSeconds float64        `json:"time_seconds"`
}

// History maps prompt name to provider key to entry.
type History map[string]map[string]Entry

// Set overwrites the entry for one (prompt, provider) pair.
func (h History) Set(promptName, providerKey string, e Entry) {
	if h[promptName] == nil {
		h[promptName] = make(map[string]Entry)
	}
	h[promptName][providerKey] = e
}

// Get looks up the entry for one pair.
func (h History) Get(promptName, providerKey string) (Entry, bool) {
	e, ok := h[promptName][providerKey]
	return e, ok
}

// Store reads and writes the history file. Single writer assumed: the
// file is read once at the start of a batch and written once at the end,
// and concurrent runs against the same file are not supported.
type Store struct {
	path string
}

// NewStore returns a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the persisted history. A missing file is an empty history,
// not an error.
func (s *Store) Load() (History, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return History{}, nil
		}
		return nil, fmt.Errorf("reading history %s: %w", s.path, err)
	}
	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parsing history %s: %w", s.path, err)
	}
	if h == nil {
		h = History{}
	}
	return h, nil
}

// Merge loads the persisted history, overwrites only the pairs present
// in run, and writes the whole mapping back. Entries for pairs not in
// this run survive untouched.
func (s *Store) Merge(run History) error {
	existing, err := s.Load()
	if err != nil {
		return err
	}
	for promptName, byProvider := range run {
		for providerKey, entry := range byProvider {
			existing.Set(promptName, providerKey, entry)
		}
	}
	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing history %s: %w", s.path, err)
	}
	return nil
}
