package mdns

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/aretw0/romote/internal/logging"
	"github.com/aretw0/romote/pkg/domain"
)

const (
	DefaultDomain  = "local."
	DefaultTimeout = 3 * time.Second
)

// Discoverer browses a DNS-SD service type and reports each instance as a
// device handle pointing at its advertised host and port.
type Discoverer struct {
	Service string
	Domain  string
	Timeout time.Duration
	logger  *slog.Logger
}

// New creates a discoverer for service (e.g. "_roku-ecp._tcp").
func New(service string, timeout time.Duration, logger *slog.Logger) *Discoverer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Discoverer{Service: service, Domain: DefaultDomain, Timeout: timeout, logger: logger}
}

// Discover browses for the configured timeout.
func (d *Discoverer) Discover(ctx context.Context) ([]domain.DeviceHandle, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("mdns resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var handles []domain.DeviceHandle
	var wg sync.WaitGroup

	scanCtx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for entry := range entries {
			h, ok := entryToHandle(entry)
			if !ok {
				continue
			}
			d.logger.Debug("mdns discovered device", "instance", h.ID, "location", h.Location)
			handles = append(handles, h)
		}
	}()

	if err := resolver.Browse(scanCtx, d.Service, d.Domain, entries); err != nil {
		cancel()
		wg.Wait()
		return nil, fmt.Errorf("mdns browse: %w", err)
	}

	<-scanCtx.Done()
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return handles, nil
}

func entryToHandle(entry *zeroconf.ServiceEntry) (domain.DeviceHandle, bool) {
	var ip net.IP
	switch {
	case len(entry.AddrIPv4) > 0:
		ip = entry.AddrIPv4[0]
	case len(entry.AddrIPv6) > 0:
		ip = entry.AddrIPv6[0]
	default:
		return domain.DeviceHandle{}, false
	}
	return domain.DeviceHandle{
		Location: "http://" + net.JoinHostPort(ip.String(), strconv.Itoa(entry.Port)) + "/",
		ID:       entry.ServiceRecord.Instance,
		Origin:   "mdns",
	}, true
}
