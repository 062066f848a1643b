package domain_test

import (
	"testing"

	"github.com/aretw0/romote/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressFromHandle(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     domain.Address
		wantErr  bool
	}{
		{"ssdp location", "http://192.168.1.134:8060/", "192.168.1.134", false},
		{"no trailing slash", "http://10.0.0.2:8060", "10.0.0.2", false},
		{"hostname", "http://living-room.local:8060/", "living-room.local", false},
		{"ipv6", "http://[fe80::1]:8060/", "fe80::1", false},
		{"https", "https://10.0.0.9/", "10.0.0.9", false},
		{"surrounding space", "  http://10.0.0.3:8060/ ", "10.0.0.3", false},
		{"empty", "", "", true},
		{"no scheme", "192.168.1.134:8060", "", true},
		{"foreign repr", "<Roku: 192.168.1.134:8060>", "", true},
		{"wrong scheme", "ftp://10.0.0.1/", "", true},
		{"no host", "http:///path", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.AddressFromHandle(domain.DeviceHandle{Location: tt.location})
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrMalformedHandle)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Address
		wantErr bool
	}{
		{"192.168.1.5", "192.168.1.5", false},
		{" 192.168.1.5 ", "192.168.1.5", false},
		{"192.168.1.5:8060", "192.168.1.5", false},
		{"http://192.168.1.5:8060/", "192.168.1.5", false},
		{"HTTP://tv.local", "tv.local", false},
		{"tv.local/query", "tv.local", false},
		{"[::1]:8060", "::1", false},
		{"[::1]", "::1", false},
		{"fe80::1", "fe80::1", false},
		{"TV.Local", "TV.Local", false},
		{"", "", true},
		{"   ", "", true},
		{"10.0.0.1:port", "", true},
		{"living room", "", true},
		{"[]", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.NormalizeAddress(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrMalformedAddress)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
