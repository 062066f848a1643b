package ssdp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/romote/internal/logging"
	"github.com/aretw0/romote/pkg/domain"
)

const (
	MulticastAddr  = "239.255.255.250:1900"
	SearchTarget   = "roku:ecp"
	DefaultTimeout = 3 * time.Second
)

// Discoverer finds devices with an SSDP M-SEARCH and collects the unicast
// replies until its timeout expires.
type Discoverer struct {
	// Target is where the search is sent. Tests point it at a local responder.
	Target       string
	SearchTarget string
	Timeout      time.Duration
	logger       *slog.Logger
}

// New creates a discoverer searching for Roku ECP devices.
func New(timeout time.Duration, logger *slog.Logger) *Discoverer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Discoverer{
		Target:       MulticastAddr,
		SearchTarget: SearchTarget,
		Timeout:      timeout,
		logger:       logger,
	}
}

// Discover sends one search and returns the devices that answered in time.
// No answers is an empty result, not an error.
func (d *Discoverer) Discover(ctx context.Context) ([]domain.DeviceHandle, error) {
	var lc net.ListenConfig
	conn, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("ssdp listen: %w", err)
	}
	defer conn.Close()

	dst, err := net.ResolveUDPAddr("udp4", d.Target)
	if err != nil {
		return nil, fmt.Errorf("ssdp target: %w", err)
	}
	if _, err := conn.WriteTo(searchRequest(d.SearchTarget, d.Timeout), dst); err != nil {
		return nil, fmt.Errorf("ssdp search: %w", err)
	}

	deadline := time.Now().Add(d.Timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("ssdp deadline: %w", err)
	}

	// Wake the read loop early on cancellation.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.SetReadDeadline(time.Now())
		case <-stop:
		}
	}()

	var handles []domain.DeviceHandle
	seen := make(map[string]struct{})
	buf := make([]byte, 2048)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				break
			}
			return nil, fmt.Errorf("ssdp read: %w", err)
		}

		h, err := parseResponse(buf[:n])
		if err != nil {
			d.logger.Debug("Ignoring SSDP reply", "from", from, "err", err)
			continue
		}
		if _, dup := seen[h.Location]; dup {
			continue
		}
		seen[h.Location] = struct{}{}
		d.logger.Debug("ssdp discovered device", "location", h.Location, "usn", h.ID)
		handles = append(handles, h)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return handles, nil
}

func searchRequest(st string, timeout time.Duration) []byte {
	mx := int(timeout / time.Second)
	if mx < 1 {
		mx = 1
	}
	return []byte(strings.Join([]string{
		"M-SEARCH * HTTP/1.1",
		"HOST: " + MulticastAddr,
		`MAN: "ssdp:discover"`,
		fmt.Sprintf("MX: %d", mx),
		"ST: " + st,
		"", "",
	}, "\r\n"))
}

// parseResponse reads an SSDP reply, which is an HTTP response over UDP.
func parseResponse(b []byte) (domain.DeviceHandle, error) {
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(b)), nil)
	if err != nil {
		return domain.DeviceHandle{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.DeviceHandle{}, fmt.Errorf("status %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if loc == "" {
		return domain.DeviceHandle{}, errors.New("missing LOCATION header")
	}
	return domain.DeviceHandle{
		Location: loc,
		ID:       resp.Header.Get("Usn"),
		Origin:   "ssdp",
	}, nil
}
