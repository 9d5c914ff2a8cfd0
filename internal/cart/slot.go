package cart

import (
	"context"
	"errors"
)

var (
	// ErrSlotEmpty is returned by Slot.Get when nothing is stored under the key.
	ErrSlotEmpty = errors.New("cart slot is empty")

	// ErrSlotUnavailable wraps failures to reach the slot backend. Callers
	// may retry; nothing was loaded or changed.
	ErrSlotUnavailable = errors.New("cart storage unavailable")
)

// Slot is a durable key-value entry holding a serialised cart.
type Slot interface {
	// Get returns the stored bytes or ErrSlotEmpty.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// SlotKey returns the slot key for a cart session.
func SlotKey(sessionID string) string {
	return "cart:" + sessionID
}
