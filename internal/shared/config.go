package shared

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config is the bridge configuration, loaded from JSON. Zero values
// fall back to the defaults below so a missing file still boots.
type Config struct {
	// RegistrationTimeoutMs bounds how long startup waits for the
	// script side to finish queueing registrations.
	RegistrationTimeoutMs int `json:"registrationTimeoutMs"`

	// RegistrationPollMs is the wait granularity hosts that poll
	// instead of blocking should use.
	RegistrationPollMs int `json:"registrationPollMs"`

	// Datagen switches the whole process into data-generation mode.
	Datagen bool `json:"datagen"`

	// DatagenOutput is where the datagen manifest is written.
	DatagenOutput string `json:"datagenOutput"`

	// StorePath is the SQLite mod data store. ":memory:" is valid.
	StorePath string `json:"storePath"`

	// MetricsAddr serves prometheus metrics when non-empty,
	// e.g. "127.0.0.1:9470".
	MetricsAddr string `json:"metricsAddr"`

	// LogFile is the rotated log file name under log/.
	LogFile string `json:"logFile"`

	// Mods toggles individual mod programs by slug. Missing slugs
	// default to enabled.
	Mods map[string]bool `json:"mods"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		RegistrationTimeoutMs: 5000,
		RegistrationPollMs:    50,
		DatagenOutput:         "generated/content.json",
		StorePath:             "data/redstone.db",
		LogFile:               "redstone.log",
	}
}

// findConfigPath searches the known install locations for a config file
func findConfigPath(filename string) string {
	paths := []string{
		"config/" + filename,
		"mods/redstone/" + filename,
		filename,
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return paths[0]
}

// LoadConfig reads the config from path, or from the search paths when
// path is empty. A missing file yields the defaults; a malformed file
// is an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = findConfigPath("redstone.json")
	}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.RegistrationTimeoutMs <= 0 {
		cfg.RegistrationTimeoutMs = 5000
	}
	if cfg.RegistrationPollMs <= 0 {
		cfg.RegistrationPollMs = 50
	}
	return cfg, nil
}

// RegistrationTimeout returns the barrier timeout as a duration.
func (c Config) RegistrationTimeout() time.Duration {
	return time.Duration(c.RegistrationTimeoutMs) * time.Millisecond
}

// RegistrationPoll returns the poll granularity as a duration.
func (c Config) RegistrationPoll() time.Duration {
	return time.Duration(c.RegistrationPollMs) * time.Millisecond
}

// ModEnabled reports whether a mod slug is enabled.
func (c Config) ModEnabled(slug string) bool {
	if c.Mods == nil {
		return true
	}
	enabled, ok := c.Mods[slug]
	if !ok {
		return true
	}
	return enabled
}
