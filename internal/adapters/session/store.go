// Package session defines the conversation-memory store interface and errors.
package session

import (
	"context"

	"github.com/okian/cpcoach/internal/domain/model"
)

// Store maps a conversation id to its registered handles.
//
// Lifecycle is the process lifetime: contents are created empty at start,
// cleared at exit, and carry no cross-restart durability. There is no
// expiry policy beyond process restart; that limitation is deliberate and
// documented rather than papered over.
type Store interface {
	// Add registers a handle for the conversation. Adding a handle that
	// is already registered is a no-op; Add reports whether the handle
	// was newly stored.
	Add(ctx context.Context, conversationID string, h model.Handle) (bool, error)

	// List returns the conversation's handles in registration order.
	// The returned slice is a copy; mutating it does not affect the store.
	// Returns ErrNoHandles when the conversation has none.
	List(ctx context.Context, conversationID string) ([]model.Handle, error)

	// Remove drops one handle from the conversation.
	Remove(ctx context.Context, conversationID string, h model.Handle) error

	// Conversations returns the number of conversations with at least one
	// registered handle.
	Conversations(ctx context.Context) int
}
