package ecp

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"

	"github.com/jellydator/ttlcache/v3"

	"github.com/aretw0/romote/pkg/domain"
)

// DeviceInfo is the subset of /query/device-info the remote shows.
type DeviceInfo struct {
	XMLName      xml.Name `xml:"device-info"`
	FriendlyName string   `xml:"friendly-device-name"`
	UserName     string   `xml:"user-device-name"`
	ModelName    string   `xml:"model-name"`
	SerialNumber string   `xml:"serial-number"`
	PowerMode    string   `xml:"power-mode"`
}

// Label is a short human name, e.g. "Living Room (Roku Ultra)".
func (i DeviceInfo) Label() string {
	name := i.UserName
	if name == "" {
		name = i.FriendlyName
	}
	switch {
	case name != "" && i.ModelName != "" && name != i.ModelName:
		return fmt.Sprintf("%s (%s)", name, i.ModelName)
	case name != "":
		return name
	}
	return i.ModelName
}

// Info queries the device description, memoized per address.
func (c *Client) Info(ctx context.Context, addr domain.Address) (DeviceInfo, error) {
	if item := c.info.Get(addr); item != nil {
		return item.Value(), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL(addr)+"/query/device-info", nil)
	if err != nil {
		return DeviceInfo{}, fmt.Errorf("ecp: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return DeviceInfo{}, classify(ctx, addr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return DeviceInfo{}, &domain.TransportError{
			Kind: domain.FailureRejected,
			Addr: addr,
			Err:  fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	var info DeviceInfo
	if err := xml.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&info); err != nil {
		return DeviceInfo{}, fmt.Errorf("ecp: decode device-info: %w", err)
	}
	c.info.Set(addr, info, ttlcache.DefaultTTL)
	return info, nil
}

// Describe implements ports.Describer.
func (c *Client) Describe(ctx context.Context, addr domain.Address) (string, error) {
	info, err := c.Info(ctx, addr)
	if err != nil {
		return "", err
	}
	return info.Label(), nil
}
