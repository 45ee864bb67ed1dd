// Package config loads deck's optional TOML configuration, providing
// defaults for the drivers' poll intervals, the default log tail length,
// and a log directory override.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds deck's tunables. Defaults() supplies the built-in values for
// every field a config file leaves out: absence of a config file is never an
// error.
type Config struct {
	// PollInterval is the foreground driver's idle sleep between poll
	// cycles (spec: ~16ms).
	PollInterval time.Duration `toml:"poll_interval" mapstructure:"poll_interval"`
	// DaemonPollInterval is the daemon driver's idle sleep (spec: 50ms).
	DaemonPollInterval time.Duration `toml:"daemon_poll_interval" mapstructure:"daemon_poll_interval"`
	// DefaultTailLines is how many lines `deck logs` streams when the
	// caller gives neither --head nor --tail.
	DefaultTailLines int `toml:"default_tail_lines" mapstructure:"default_tail_lines"`
	// LogDir, when non-empty, overrides the session directory's logs/
	// location (spec.md §3 Session directory).
	LogDir string `toml:"log_dir" mapstructure:"log_dir"`
}

// Defaults returns the built-in Config used when no file is found.
func Defaults() Config {
	return Config{
		PollInterval:       16 * time.Millisecond,
		DaemonPollInterval: 50 * time.Millisecond,
		DefaultTailLines:   100,
		LogDir:             "",
	}
}

// searchPaths returns the config search order, first found wins: ./deck.toml,
// $XDG_CONFIG_HOME/deck/deck.toml, $HOME/.config/deck/deck.toml.
func searchPaths() []string {
	var paths []string
	paths = append(paths, "deck.toml")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "deck", "deck.toml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "deck", "deck.toml"))
	}
	return paths
}

// Load resolves deck's configuration. When explicitPath is non-empty, only
// that file is consulted and a malformed or unreadable file is a hard
// error. Otherwise Load probes searchPaths() in order and returns Defaults()
// untouched if none exist. Uses a fresh viper.New() per call so concurrent
// callers (and tests) never share global viper state, matching the
// teacher's scoped-instance style in LoadGlobalEnv.
func Load(explicitPath string) (Config, error) {
	cfg := Defaults()

	if explicitPath != "" {
		v := viper.New()
		v.SetConfigFile(explicitPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
		if err := v.Unmarshal(&cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}

	for _, p := range searchPaths() {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		v := viper.New()
		v.SetConfigFile(p)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return Config{}, err
		}
		if err := v.Unmarshal(&cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}

	return cfg, nil
}
