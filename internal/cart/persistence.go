package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Persister keeps a durable copy of a Store's lines in a Slot.
type Persister struct {
	slot         Slot
	writeTimeout time.Duration
	logger       zerolog.Logger
}

// NewPersister creates a persister writing to slot. Every slot write gets its
// own context bounded by writeTimeout.
func NewPersister(slot Slot, writeTimeout time.Duration, logger zerolog.Logger) *Persister {
	if writeTimeout <= 0 {
		writeTimeout = 2 * time.Second
	}
	return &Persister{
		slot:         slot,
		writeTimeout: writeTimeout,
		logger:       logger.With().Str("component", "cart-persister").Logger(),
	}
}

// Restore loads the session's slot into store. A missing slot leaves the cart
// empty. Corrupt data is logged and discarded so the cart starts empty; only a
// failure to reach the slot is returned.
func (p *Persister) Restore(ctx context.Context, sessionID string, store *Store) error {
	key := SlotKey(sessionID)

	data, err := p.slot.Get(ctx, key)
	if errors.Is(err, ErrSlotEmpty) {
		p.logger.Debug().Str("session_id", sessionID).Msg("no persisted cart")
		return nil
	}
	if err != nil {
		p.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to read cart slot")
		return fmt.Errorf("%w: %w", ErrSlotUnavailable, err)
	}

	lines, err := DecodeLines(data)
	if err != nil {
		p.logger.Warn().
			Err(err).
			Str("session_id", sessionID).
			Int("bytes", len(data)).
			Msg("discarding corrupt persisted cart")
		return nil
	}

	store.Load(lines)

	p.logger.Debug().
		Str("session_id", sessionID).
		Int("lines", len(lines)).
		Msg("cart restored")

	return nil
}

// Attach subscribes the persister to store. Updates overwrite the slot, a
// clear deletes it. Write failures are logged and never reach the mutator.
func (p *Persister) Attach(sessionID string, store *Store) func() {
	key := SlotKey(sessionID)

	return store.Subscribe(func(change Change) {
		ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
		defer cancel()

		switch change.Kind {
		case ChangeCleared:
			if err := p.slot.Delete(ctx, key); err != nil {
				p.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to delete cart slot")
			}
		default:
			data, err := EncodeLines(change.Lines)
			if err != nil {
				p.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to encode cart")
				return
			}
			if err := p.slot.Put(ctx, key, data); err != nil {
				p.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to write cart slot")
			}
		}
	})
}

// EncodeLines serialises lines as a JSON array.
func EncodeLines(lines []model.CartLine) ([]byte, error) {
	if lines == nil {
		lines = []model.CartLine{}
	}
	return json.Marshal(lines)
}

// DecodeLines parses a JSON array of cart lines and rejects records that
// could not have been written by a Store.
func DecodeLines(data []byte) ([]model.CartLine, error) {
	var lines []model.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("invalid cart payload: %w", err)
	}

	for i, line := range lines {
		if line.ProductID == "" {
			return nil, fmt.Errorf("line %d: product ID is required", i)
		}
		if line.Quantity < 1 {
			return nil, fmt.Errorf("line %d: quantity must be at least 1", i)
		}
		if line.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("line %d: unit price must not be negative", i)
		}
	}

	return lines, nil
}
