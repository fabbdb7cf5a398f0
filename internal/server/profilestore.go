package server

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/jobcopilot/autofill/profile"
)

// ProfileStore persists the single candidate profile to a JSON file and
// serializes access to it.
type ProfileStore struct {
	path string

	mu      sync.Mutex
	current profile.Profile
}

// OpenProfileStore loads the profile from path. A missing file yields
// an empty profile that is created on the first PUT.
func OpenProfileStore(path string) (*ProfileStore, error) {
	ps := &ProfileStore{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ps, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if err := json.Unmarshal(data, &ps.current); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return ps, nil
}

// Get returns a copy of the current profile.
func (ps *ProfileStore) Get() profile.Profile {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.current
}

// Put replaces the profile and writes it to disk.
func (ps *ProfileStore) Put(p profile.Profile) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := os.WriteFile(ps.path, data, 0644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	ps.current = p
	return nil
}
