package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	// StateFileName is the name of the state file inside the state directory
	StateFileName = "state.json"
)

// persistedState is the on-disk layout of the store.
type persistedState struct {
	AutoUpdate     map[string]bool        `json:"autoUpdate,omitempty"`
	ActiveProfiles map[string]string      `json:"activeProfiles,omitempty"`
	Activations    map[string]*Activation `json:"activations,omitempty"`
}

// fileStore implements Store using a single JSON file, kept fully cached in
// memory and rewritten atomically on every mutation.
type fileStore struct {
	path string

	mu    sync.RWMutex
	state persistedState
}

// NewFileStore creates a file-backed store rooted at baseDir. Existing state
// is loaded eagerly; a missing file is not an error (first run).
func NewFileStore(baseDir string) (Store, error) {
	s := &fileStore{
		path: filepath.Join(baseDir, StateFileName),
		state: persistedState{
			AutoUpdate:     make(map[string]bool),
			ActiveProfiles: make(map[string]string),
			Activations:    make(map[string]*Activation),
		},
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func activationKey(hubID, profileID string) string {
	return hubID + "/" + profileID
}

func (s *fileStore) AutoUpdateEnabled(_ context.Context, bundleID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AutoUpdate[bundleID], nil
}

func (s *fileStore) SetAutoUpdate(_ context.Context, bundleID string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AutoUpdate[bundleID] = enabled
	return s.save()
}

func (s *fileStore) ActiveProfile(_ context.Context, hubID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ActiveProfiles[hubID], nil
}

func (s *fileStore) SetActiveProfile(_ context.Context, hubID, profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ActiveProfiles[hubID] = profileID
	return s.save()
}

func (s *fileStore) Activation(_ context.Context, hubID, profileID string) (*Activation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	act, ok := s.state.Activations[activationKey(hubID, profileID)]
	if !ok || act == nil {
		return nil, nil
	}
	// Return a copy to prevent external modification
	cp := *act
	cp.SyncedBundles = append(cp.SyncedBundles[:0:0], act.SyncedBundles...)
	return &cp, nil
}

func (s *fileStore) SaveActivation(_ context.Context, hubID, profileID string, act *Activation) error {
	if act == nil {
		return fmt.Errorf("activation state is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *act
	cp.SyncedBundles = append(cp.SyncedBundles[:0:0], act.SyncedBundles...)
	s.state.Activations[activationKey(hubID, profileID)] = &cp
	return s.save()
}

// load reads the state file into the in-memory cache. Missing file is OK for
// first run.
func (s *fileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}

	var loaded persistedState
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal state file: %w", err)
	}

	if loaded.AutoUpdate != nil {
		s.state.AutoUpdate = loaded.AutoUpdate
	}
	if loaded.ActiveProfiles != nil {
		s.state.ActiveProfiles = loaded.ActiveProfiles
	}
	if loaded.Activations != nil {
		s.state.Activations = loaded.Activations
	}
	return nil
}

// save writes the cache to disk via a temporary file and atomic rename.
// Callers must hold the write lock.
func (s *fileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename state file: %w", err)
	}

	return nil
}
