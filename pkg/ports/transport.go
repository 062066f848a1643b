package ports

import (
	"context"

	"github.com/aretw0/romote/pkg/domain"
)

// Connector binds a transport to one device address.
type Connector interface {
	// Connect returns a Controller for addr. Failures are *domain.TransportError.
	Connect(ctx context.Context, addr domain.Address) (Controller, error)
}

// Controller sends commands to the device it is bound to.
type Controller interface {
	// Invoke sends cmd. arg is only meaningful for commands that take text.
	// Connectivity failures are *domain.TransportError values classified as
	// transient; a device refusing the command is classified as rejected.
	Invoke(ctx context.Context, cmd domain.CommandID, arg string) error
}
