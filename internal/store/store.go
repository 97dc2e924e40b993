// Package store keeps the per-session product list. The list lives only as
// long as the session: the memory store drops it with the process and the
// Redis store expires it after the session TTL.
package store

import (
	"context"

	"github.com/anyulbade/marketplace-pricer/internal/model"
)

// ProductStore is an ordered, append-only list per session.
type ProductStore interface {
	// Append adds a product at the end of the session's list.
	Append(ctx context.Context, sessionID string, p model.Product) error

	// List returns the session's products in insertion order.
	List(ctx context.Context, sessionID string) ([]model.Product, error)

	// Clear drops the whole list.
	Clear(ctx context.Context, sessionID string) error

	// Ping reports whether the backing service is reachable.
	Ping(ctx context.Context) error
}
