package state

import (
	"context"
	"fmt"
	"sync"
)

// memoryStore implements Store entirely in memory. Used in tests and by the
// one-shot CLI commands that do not need persistence.
type memoryStore struct {
	mu          sync.RWMutex
	autoUpdate  map[string]bool
	active      map[string]string
	activations map[string]*Activation
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() Store {
	return &memoryStore{
		autoUpdate:  make(map[string]bool),
		active:      make(map[string]string),
		activations: make(map[string]*Activation),
	}
}

func (s *memoryStore) AutoUpdateEnabled(_ context.Context, bundleID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoUpdate[bundleID], nil
}

func (s *memoryStore) SetAutoUpdate(_ context.Context, bundleID string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoUpdate[bundleID] = enabled
	return nil
}

func (s *memoryStore) ActiveProfile(_ context.Context, hubID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active[hubID], nil
}

func (s *memoryStore) SetActiveProfile(_ context.Context, hubID, profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[hubID] = profileID
	return nil
}

func (s *memoryStore) Activation(_ context.Context, hubID, profileID string) (*Activation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	act, ok := s.activations[activationKey(hubID, profileID)]
	if !ok || act == nil {
		return nil, nil
	}
	cp := *act
	cp.SyncedBundles = append(cp.SyncedBundles[:0:0], act.SyncedBundles...)
	return &cp, nil
}

func (s *memoryStore) SaveActivation(_ context.Context, hubID, profileID string, act *Activation) error {
	if act == nil {
		return fmt.Errorf("activation state is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *act
	cp.SyncedBundles = append(cp.SyncedBundles[:0:0], act.SyncedBundles...)
	s.activations[activationKey(hubID, profileID)] = &cp
	return nil
}
