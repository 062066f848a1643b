package ports

import (
	"context"

	"github.com/aretw0/romote/pkg/domain"
)

// Discoverer scans the local network for controllable devices.
// Finding nothing is a normal result (empty slice, nil error); errors are
// reserved for infrastructure failures such as a missing network interface.
type Discoverer interface {
	Discover(ctx context.Context) ([]domain.DeviceHandle, error)
}

// Describer returns a human-readable label for a device, best effort.
type Describer interface {
	Describe(ctx context.Context, addr domain.Address) (string, error)
}
