// Package config loads romote settings from defaults, a YAML file, a .env
// file and ROMOTE_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/romote/internal/logging"
	"github.com/aretw0/romote/pkg/domain"
)

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Discovery methods.
const (
	MethodSSDP = "ssdp"
	MethodMDNS = "mdns"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "ROMOTE_"

// Config is the top-level romote configuration.
type Config struct {
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	ECP       ECPConfig       `yaml:"ecp" mapstructure:"ecp"`
	Metrics   MetricsConfig   `yaml:"metrics" mapstructure:"metrics"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`

	// HistoryFile stores readline history. Empty disables history.
	HistoryFile string `yaml:"history_file" mapstructure:"history_file"`
}

// CacheConfig selects where the most recent address is kept.
type CacheConfig struct {
	Backend     string        `yaml:"backend" mapstructure:"backend"`
	Path        string        `yaml:"path" mapstructure:"path"`
	RedisURL    string        `yaml:"redis_url" mapstructure:"redis_url"`
	RedisTTL    time.Duration `yaml:"redis_ttl" mapstructure:"redis_ttl"` // 0 = no expiry
	RedisPrefix string        `yaml:"redis_prefix" mapstructure:"redis_prefix"`
}

// DiscoveryConfig controls network discovery rounds.
type DiscoveryConfig struct {
	Methods     []string      `yaml:"methods" mapstructure:"methods"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MDNSService string        `yaml:"mdns_service" mapstructure:"mdns_service"`
}

// ECPConfig tunes the device transport.
type ECPConfig struct {
	Port            int           `yaml:"port" mapstructure:"port"`
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Rate            float64       `yaml:"rate" mapstructure:"rate"` // keypresses per second
	Burst           int           `yaml:"burst" mapstructure:"burst"`
	BreakerFailures uint32        `yaml:"breaker_failures" mapstructure:"breaker_failures"`
	BreakerOpen     time.Duration `yaml:"breaker_open" mapstructure:"breaker_open"`
	InfoTTL         time.Duration `yaml:"info_ttl" mapstructure:"info_ttl"`

	// Verify names the command sent to verify a device, e.g. "up" or "home".
	Verify string `yaml:"verify_command" mapstructure:"verify_command"`
}

// VerifyCommand resolves Verify. It reports false for unknown names and for
// commands that need an argument.
func (e ECPConfig) VerifyCommand() (domain.CommandID, bool) {
	cmd, ok := domain.ParseCommand(strings.ToLower(strings.TrimSpace(e.Verify)))
	if !ok || cmd.NeedsArgument() {
		return domain.CommandUnknown, false
	}
	return cmd, true
}

// MetricsConfig enables the status endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LogConfig controls the debug logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			Backend:     BackendFile,
			RedisPrefix: "romote:",
		},
		Discovery: DiscoveryConfig{
			Methods: []string{MethodSSDP},
			Timeout: 3 * time.Second,
		},
		ECP: ECPConfig{
			Port:            8060,
			Timeout:         3 * time.Second,
			Rate:            10,
			Burst:           10,
			BreakerFailures: 3,
			BreakerOpen:     10 * time.Second,
			InfoTTL:         5 * time.Minute,
			Verify:          domain.CommandUp.String(),
		},
		Log: LogConfig{
			Level:  "debug",
			Format: logging.FormatText,
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/romote/config.yaml (or the platform
// equivalent). It returns "" when no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "romote", "config.yaml")
}

// Load builds the effective configuration.
// An empty path means DefaultPath, which may be absent; an explicit path
// must exist. Variables from dotenv (if non-empty) are loaded into the
// process environment before ROMOTE_* overrides are read.
func Load(path, dotenv string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if err := loadDotEnv(dotenv); err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", dotenv, err)
	}

	raw := map[string]any{}
	if path != "" {
		fileMap, err := readFile(path)
		switch {
		case err == nil:
			raw = fileMap
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return Config{}, err
		}
	}

	merge(raw, envOverrides(os.LookupEnv))

	cfg := Default()
	if err := decode(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	out := map[string]any{}
	if err := yaml.Unmarshal([]byte(expanded), &out); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return out, nil
}

func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// merge copies src into dst, descending into nested maps.
func merge(dst, src map[string]any) {
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		existing, ok := dst[k].(map[string]any)
		if !ok {
			existing = map[string]any{}
			dst[k] = existing
		}
		merge(existing, sub)
	}
}

// envKeys maps each supported variable (without prefix) to its config path.
var envKeys = map[string]string{
	"CACHE_BACKEND":        "cache.backend",
	"CACHE_PATH":           "cache.path",
	"CACHE_REDIS_URL":      "cache.redis_url",
	"CACHE_REDIS_TTL":      "cache.redis_ttl",
	"CACHE_REDIS_PREFIX":   "cache.redis_prefix",
	"DISCOVERY_METHODS":    "discovery.methods",
	"DISCOVERY_TIMEOUT":    "discovery.timeout",
	"DISCOVERY_MDNS":       "discovery.mdns_service",
	"ECP_PORT":             "ecp.port",
	"ECP_TIMEOUT":          "ecp.timeout",
	"ECP_RATE":             "ecp.rate",
	"ECP_BURST":            "ecp.burst",
	"ECP_BREAKER_FAILURES": "ecp.breaker_failures",
	"ECP_BREAKER_OPEN":     "ecp.breaker_open",
	"ECP_INFO_TTL":         "ecp.info_ttl",
	"ECP_VERIFY_COMMAND":   "ecp.verify_command",
	"METRICS_ADDR":         "metrics.addr",
	"LOG_LEVEL":            "log.level",
	"LOG_FORMAT":           "log.format",
	"HISTORY_FILE":         "history_file",
}

func envOverrides(lookup func(string) (string, bool)) map[string]any {
	out := map[string]any{}
	for name, path := range envKeys {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		keys := strings.Split(path, ".")
		m := out
		for _, k := range keys[:len(keys)-1] {
			next, ok := m[k].(map[string]any)
			if !ok {
				next = map[string]any{}
				m[k] = next
			}
			m = next
		}
		m[keys[len(keys)-1]] = v
	}
	return out
}
