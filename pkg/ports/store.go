package ports

import (
	"context"

	"github.com/aretw0/romote/pkg/domain"
)

// AddressCache persists the most recently established device address.
// It holds a single record.
type AddressCache interface {
	// Load returns the cached address.
	// Returns domain.ErrCacheMiss when no record exists and
	// domain.ErrMalformedCache when a record exists but cannot be decoded.
	Load(ctx context.Context) (domain.Address, error)

	// Save replaces the record with addr in one step.
	Save(ctx context.Context, addr domain.Address) error

	// Clear removes the record. Clearing an empty cache is not an error.
	Clear(ctx context.Context) error
}
