package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/romote/internal/logging"
	"github.com/aretw0/romote/pkg/domain"
	"github.com/aretw0/romote/pkg/ports"
)

// MultiDiscoverer runs several discoverers in order and merges their results.
type MultiDiscoverer struct {
	children []ports.Discoverer
	logger   *slog.Logger
}

// NewMultiDiscoverer creates a discoverer over children.
func NewMultiDiscoverer(logger *slog.Logger, children ...ports.Discoverer) *MultiDiscoverer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &MultiDiscoverer{children: children, logger: logger}
}

// Discover merges handles by Location, keeping first-seen order. It fails
// only if every child failed; partial failures are logged.
func (m *MultiDiscoverer) Discover(ctx context.Context) ([]domain.DeviceHandle, error) {
	var (
		out  []domain.DeviceHandle
		errs []error
		seen = make(map[string]struct{})
	)
	for i, d := range m.children {
		handles, err := d.Discover(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			m.logger.Warn("Discoverer failed", "index", i, "err", err)
			errs = append(errs, err)
			continue
		}
		for _, h := range handles {
			if _, dup := seen[h.Location]; dup {
				continue
			}
			seen[h.Location] = struct{}{}
			out = append(out, h)
		}
	}

	if len(m.children) > 0 && len(errs) == len(m.children) {
		return nil, fmt.Errorf("all discovery methods failed: %w", errors.Join(errs...))
	}
	return out, nil
}
