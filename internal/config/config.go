package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/agent-platform/worldclock/internal/holiday"
	"github.com/agent-platform/worldclock/internal/zone"
)

// Config holds the application configuration.
type Config struct {
	Database string        `yaml:"database" toml:"database"`
	LogLevel string        `yaml:"log_level" toml:"log_level"`
	LogFile  string        `yaml:"log_file" toml:"log_file"`
	ZoneTab  string        `yaml:"zone_tab" toml:"zone_tab"`
	Display  DisplayConfig `yaml:"display" toml:"display"`
	Holidays HolidayConfig `yaml:"holidays" toml:"holidays"`
	Server   ServerConfig  `yaml:"server" toml:"server"`
}

// DisplayConfig seeds the display preferences of a fresh store.
type DisplayConfig struct {
	LocalFormat string `yaml:"local_format" toml:"local_format"`
	WorldFormat string `yaml:"world_format" toml:"world_format"`
	WorldFirst  bool   `yaml:"world_first" toml:"world_first"`
}

// HolidayConfig controls the public holiday lookups.
type HolidayConfig struct {
	Enabled        bool   `yaml:"enabled" toml:"enabled"`
	Endpoint       string `yaml:"endpoint" toml:"endpoint"`
	Refresh        string `yaml:"refresh" toml:"refresh"`
	TimeoutSeconds int    `yaml:"timeout_seconds" toml:"timeout_seconds"`
}

// Timeout returns the per-request timeout.
func (h HolidayConfig) Timeout() time.Duration {
	if h.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// ServerConfig defines the HTTP API listener.
type ServerConfig struct {
	Port int `yaml:"port" toml:"port"`
}

// DefaultConfigDir returns the default configuration directory (~/.worldclock).
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".worldclock"), nil
}

// inConfigDir joins elem onto DefaultConfigDir.
func inConfigDir(elem ...string) (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{dir}, elem...)...), nil
}

// DefaultConfigPath returns ~/.worldclock/config.yaml.
func DefaultConfigPath() (string, error) { return inConfigDir("config.yaml") }

// DefaultDBPath returns the SQLite preference store path.
func DefaultDBPath() (string, error) { return inConfigDir("worldclock.db") }

// DefaultLogPath returns the path of the rotated log file.
func DefaultLogPath() (string, error) { return inConfigDir("logs", "worldclock.log") }

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	dbPath, _ := DefaultDBPath()
	logPath, _ := DefaultLogPath()
	return Config{
		Database: dbPath,
		LogLevel: "info",
		LogFile:  logPath,
		ZoneTab:  zone.DefaultZoneTab,
		Display: DisplayConfig{
			LocalFormat: "HH:mm",
			WorldFormat: "HH:mm",
		},
		Holidays: HolidayConfig{
			Enabled:        true,
			Endpoint:       holiday.DefaultEndpoint,
			Refresh:        holiday.DefaultSchedule,
			TimeoutSeconds: 15,
		},
		Server: ServerConfig{
			Port: 7420,
		},
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a config file from disk. Files ending in .toml are read as TOML,
// everything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &cfg, nil
}

func marshal(path string, cfg *Config) ([]byte, error) {
	if !isTOML(path) {
		return yaml.Marshal(cfg)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the config to disk, creating directories as needed.
func Save(path string, cfg *Config) error {
	return write(path, cfg, false)
}

// SaveWithComments writes the config with guidance comments next to the
// format and schedule fields. Used by `init`.
func SaveWithComments(path string, cfg *Config) error {
	return write(path, cfg, true)
}

func write(path string, cfg *Config, comments bool) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := marshal(path, cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if comments {
		data = addConfigComments(data)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// addConfigComments annotates known keys. YAML and TOML both use # comments.
func addConfigComments(data []byte) []byte {
	var result []string
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		indent := line[:len(line)-len(trimmed)]

		switch {
		case strings.HasPrefix(trimmed, "local_format"):
			result = append(result,
				indent+"# Unicode date patterns, e.g.:",
				indent+"#   HH:mm        14:05",
				indent+"#   h:mm a       2:05 PM",
				indent+"#   EEE HH:mm    Mon 14:05",
				indent+"#   'W'w · EEE HH:mm",
				indent+"#   dd MMM HH:mm",
				line,
			)

		case strings.HasPrefix(trimmed, "refresh"):
			result = append(result, line+" # cron spec for refreshing public holidays")

		case strings.HasPrefix(trimmed, "zone_tab"):
			result = append(result, line+" # zone to country table from tzdata")

		case strings.HasPrefix(trimmed, "database"):
			result = append(result,
				indent+"# sqlite file path, or a postgres:// DSN",
				line,
			)

		default:
			result = append(result, line)
		}
	}
	return []byte(strings.Join(result, "\n"))
}

// LoadOrCreate loads the config from the default path, or creates it with defaults.
func LoadOrCreate() (*Config, string, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, "", err
	}

	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			def := DefaultConfig()
			if saveErr := Save(path, &def); saveErr != nil {
				return nil, "", fmt.Errorf("create default config: %w", saveErr)
			}
			return &def, path, nil
		}
		return nil, "", err
	}

	return cfg, path, nil
}
