package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// CounterState is the persisted rolling counter state of one packer.
type CounterState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Catalog is the name of the catalog the counters belong to.
	Catalog string `json:"catalog,omitempty"`

	// Counters maps message addresses ("0xE4") to the last emitted counter.
	Counters map[string]uint64 `json:"counters,omitempty"`
}

// NewCounterState converts packer counters into a CounterState.
func NewCounterState(catalog string, counters map[uint32]uint64) *CounterState {
	state := &CounterState{
		Catalog:  catalog,
		Counters: make(map[string]uint64, len(counters)),
	}
	for address, v := range counters {
		state.Counters[fmt.Sprintf("0x%X", address)] = v
	}
	return state
}

// Addresses converts the stored counters back to address keys.
func (s *CounterState) Addresses() (map[uint32]uint64, error) {
	out := make(map[uint32]uint64, len(s.Counters))
	for key, v := range s.Counters {
		address, err := strconv.ParseUint(key, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid address key %q in state file", key)
		}
		out[uint32(address)] = v
	}
	return out, nil
}

// CounterStateStore manages persistence of counter state to a JSON file.
type CounterStateStore struct {
	mu   sync.Mutex
	path string
}

// NewCounterStateStore creates a new counter state store.
func NewCounterStateStore(path string) *CounterStateStore {
	return &CounterStateStore{path: path}
}

// Save persists the counter state to disk.
func (s *CounterStateStore) Save(state *CounterState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	// Readers never see a partially written file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the counter state from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *CounterStateStore) Load() (*CounterState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &CounterState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	if state.Version > StateVersion {
		return nil, fmt.Errorf("state file version %d is newer than supported %d", state.Version, StateVersion)
	}

	return state, nil
}

// Clear removes the state file.
func (s *CounterStateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
