package memory

import (
	"context"
	"sync"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
)

// Ensure ProfileStore implements the interface.
var _ driven.ProfileStore = (*ProfileStore)(nil)

// ProfileStore is an in-memory implementation of driven.ProfileStore.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[int]domain.ArpProfile
}

// NewProfileStore creates a new in-memory profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[int]domain.ArpProfile),
	}
}

// Save stores or replaces the profile for an activity.
func (s *ProfileStore) Save(_ context.Context, activityID int, profile domain.ArpProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(domain.ArpProfile, len(profile))
	for k, v := range profile {
		copied[k] = v
	}
	s.profiles[activityID] = copied
	return nil
}

// Get retrieves the stored profile for an activity.
func (s *ProfileStore) Get(_ context.Context, activityID int) (domain.ArpProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[activityID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := make(domain.ArpProfile, len(profile))
	for k, v := range profile {
		copied[k] = v
	}
	return copied, nil
}
