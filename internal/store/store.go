// Package store provides the append-only analytics store. Backends implement
// a common interface so the flat-file default can be swapped for a real
// message store without touching callers.
package store

import (
	"context"
	"encoding/json"

	"github.com/contentflow-ai/platform/internal/model"
)

// Store is the analytics storage boundary. Writes are append-only; there is
// no update or delete. Reads return the full collection in insertion order,
// and an empty collection (not an error) when nothing has been stored.
type Store interface {
	// Append persists one inbound analytics payload.
	Append(ctx context.Context, payload json.RawMessage) (*model.AnalyticsRecord, error)

	// All returns every stored record in insertion order.
	All(ctx context.Context) ([]model.AnalyticsRecord, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
