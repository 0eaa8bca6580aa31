// Package memory provides the in-process StatusStore used by the service.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/JakeFAU/llmstxt-crawler/internal/llmstxt"
)

// StatusStore keeps the latest JobStatus per site key in memory. Records live
// until deleted or the process exits.
type StatusStore struct {
	mu       sync.RWMutex
	statuses map[string]llmstxt.JobStatus
}

// NewStatusStore constructs an empty StatusStore.
func NewStatusStore() *StatusStore {
	return &StatusStore{
		statuses: make(map[string]llmstxt.JobStatus),
	}
}

// Put overwrites the record for key after checking its invariants.
func (s *StatusStore) Put(_ context.Context, key string, status llmstxt.JobStatus) error {
	if err := status.Validate(); err != nil {
		return fmt.Errorf("status for %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[key] = status
	return nil
}

// PutIfIdle stores status unless the current record is running. The check and
// the write happen under one lock.
func (s *StatusStore) PutIfIdle(_ context.Context, key string, status llmstxt.JobStatus) (bool, error) {
	if err := status.Validate(); err != nil {
		return false, fmt.Errorf("status for %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.statuses[key]; ok && current.Running() {
		return false, nil
	}
	s.statuses[key] = status
	return true, nil
}

// Get returns the record for key or llmstxt.ErrNotFound.
func (s *StatusStore) Get(_ context.Context, key string) (llmstxt.JobStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.statuses[key]
	if !ok {
		return llmstxt.JobStatus{}, llmstxt.ErrNotFound
	}
	return status, nil
}

// Delete removes the record for key or returns llmstxt.ErrNotFound.
func (s *StatusStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.statuses[key]; !ok {
		return llmstxt.ErrNotFound
	}
	delete(s.statuses, key)
	return nil
}

// Len reports how many records are stored.
func (s *StatusStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.statuses)
}

var _ llmstxt.StatusStore = (*StatusStore)(nil)
