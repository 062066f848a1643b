package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/renameio"

	"github.com/aretw0/romote/pkg/domain"
)

// FileCache implements ports.AddressCache as a small TOML file:
//
//	[device]
//	recent_ip = "192.168.1.134"
type FileCache struct {
	Path string
}

type cacheRecord struct {
	Device struct {
		RecentIP string `toml:"recent_ip"`
	} `toml:"device"`
}

// DefaultCachePath returns <user config dir>/romote/recent.toml,
// falling back to the working directory when no config dir is known.
func DefaultCachePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".romote", "recent.toml")
	}
	return filepath.Join(dir, "romote", "recent.toml")
}

// NewFileCache creates a FileCache at path, or DefaultCachePath if path is empty.
func NewFileCache(path string) *FileCache {
	if path == "" {
		path = DefaultCachePath()
	}
	return &FileCache{Path: path}
}

// Load reads the cached address.
func (f *FileCache) Load(ctx context.Context) (domain.Address, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to read cache file: %w", err)
	}

	var rec cacheRecord
	if _, err := toml.Decode(string(data), &rec); err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrMalformedCache, f.Path, err)
	}
	if rec.Device.RecentIP == "" {
		return "", domain.ErrCacheMiss
	}

	addr, err := domain.NormalizeAddress(rec.Device.RecentIP)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrMalformedCache, f.Path, err)
	}
	return addr, nil
}

// Save writes the whole record to a temp file and renames it into place,
// so a crash never leaves a half-written cache.
func (f *FileCache) Save(ctx context.Context, addr domain.Address) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("failed to ensure cache directory: %w", err)
	}

	var rec cacheRecord
	rec.Device.RecentIP = addr.String()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(rec); err != nil {
		return fmt.Errorf("failed to encode cache record: %w", err)
	}
	if err := renameio.WriteFile(f.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// Clear removes the cache file.
func (f *FileCache) Clear(ctx context.Context) error {
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}
