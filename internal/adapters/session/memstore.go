package session

import (
	"context"
	"sync"

	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/pkg/metrics"
)

// MemStore implements Store with a process-wide in-memory map.
//
// Reads and writes are mutually exclusive so concurrent registrations in
// the same conversation never lose updates; List hands out a consistent
// copy taken under the read lock.
type MemStore struct {
	mu       sync.RWMutex
	byConvID map[string][]model.Handle
}

// NewMemStore creates an empty in-memory session store.
func NewMemStore() *MemStore {
	return &MemStore{byConvID: make(map[string][]model.Handle)}
}

// Add registers a handle for the conversation, keeping registration order
// and dropping exact duplicates.
func (s *MemStore) Add(_ context.Context, conversationID string, h model.Handle) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byConvID[conversationID] {
		if existing == h {
			return false, nil
		}
	}
	s.byConvID[conversationID] = append(s.byConvID[conversationID], h)
	metrics.UpdateRegisteredHandles(s.totalLocked())
	metrics.UpdateConversations(len(s.byConvID))
	return true, nil
}

// List returns a copy of the conversation's handles.
func (s *MemStore) List(_ context.Context, conversationID string) ([]model.Handle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	handles, ok := s.byConvID[conversationID]
	if !ok || len(handles) == 0 {
		return nil, ErrNoHandles
	}
	out := make([]model.Handle, len(handles))
	copy(out, handles)
	return out, nil
}

// Remove drops one handle from the conversation.
func (s *MemStore) Remove(_ context.Context, conversationID string, h model.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	handles := s.byConvID[conversationID]
	for i, existing := range handles {
		if existing == h {
			s.byConvID[conversationID] = append(handles[:i], handles[i+1:]...)
			if len(s.byConvID[conversationID]) == 0 {
				delete(s.byConvID, conversationID)
			}
			metrics.UpdateRegisteredHandles(s.totalLocked())
			metrics.UpdateConversations(len(s.byConvID))
			return nil
		}
	}
	return ErrUnknownHandle
}

// Conversations reports how many conversations hold handles.
func (s *MemStore) Conversations(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byConvID)
}

// totalLocked counts all registered handles. Callers hold s.mu.
func (s *MemStore) totalLocked() int {
	total := 0
	for _, handles := range s.byConvID {
		total += len(handles)
	}
	return total
}
