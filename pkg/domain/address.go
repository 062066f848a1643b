package domain

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Address is a bare host identifier (IP or hostname) with no embedded port.
type Address string

func (a Address) String() string {
	return string(a)
}

// Source records where a candidate address came from.
type Source string

const (
	SourceCache     Source = "cache"
	SourceDiscovery Source = "discovery"
	SourceManual    Source = "manual"
)

// DeviceHandle is the descriptor a discovery round returns for one device.
// It is only meaningful until it is converted with AddressFromHandle.
type DeviceHandle struct {
	// Location is the control base URL the device advertised,
	// e.g. "http://192.168.1.134:8060/".
	Location string
	// ID is the unique service name (SSDP USN or DNS-SD instance), if any.
	ID string
	// Origin names the discovery mechanism that produced the handle.
	Origin string
}

// AddressFromHandle extracts the host of the handle's advertised location.
// The advertised port is dropped on purpose; the transport owns the port.
func AddressFromHandle(h DeviceHandle) (Address, error) {
	u, err := url.Parse(strings.TrimSpace(h.Location))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrMalformedHandle, h.Location, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %q: unsupported scheme", ErrMalformedHandle, h.Location)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("%w: %q: missing host", ErrMalformedHandle, h.Location)
	}
	return Address(host), nil
}

// NormalizeAddress turns user or storage text into an Address.
// Accepted shapes: "host", "host:port", "[v6]", "[v6]:port", and any of
// those behind an http(s):// scheme with an optional path.
func NormalizeAddress(raw string) (Address, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrMalformedAddress)
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		u, err := url.Parse(s)
		if err != nil || u.Hostname() == "" {
			return "", fmt.Errorf("%w: %q", ErrMalformedAddress, raw)
		}
		return Address(u.Hostname()), nil
	}

	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}

	if host, port, err := net.SplitHostPort(s); err == nil {
		if _, perr := strconv.Atoi(port); perr != nil {
			return "", fmt.Errorf("%w: %q: bad port", ErrMalformedAddress, raw)
		}
		s = host
	} else if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = s[1 : len(s)-1]
	}

	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return "", fmt.Errorf("%w: %q", ErrMalformedAddress, raw)
	}
	return Address(s), nil
}
