// Package config defines configuration settings for pled and functions for loading them from a file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/dpinela/pled/internal/color"
)

// Default values for settings that are missing or invalid.
const (
	DefaultTabWidth       = 4
	DefaultQuitTimes      = 3
	DefaultMessageTimeout = 10 * time.Second
	DefaultLogLevel       = "info"
)

// Config holds the user's settings.
type Config struct {
	TabWidth       int      `toml:"tab_width"`
	QuitTimes      int      `toml:"quit_times"`    // Consecutive Ctrl-Q presses needed to discard unsaved changes
	QuitInterval   Duration `toml:"quit_interval"` // Longest pause allowed between those presses; zero means any
	MessageTimeout Duration `toml:"message_timeout"`
	LogLevel       string   `toml:"log_level"`
	StatusBar      BarStyle `toml:"status_bar"`
}

// BarStyle sets the colors of the status bar. If neither is set, the bar is drawn in
// inverse video.
type BarStyle struct {
	Foreground *color.Color `toml:"foreground"`
	Background *color.Color `toml:"background"`
}

// Duration is a time.Duration written in configuration files as a string such as "10s".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the configuration used when there is no configuration file.
func Default() *Config {
	return &Config{
		TabWidth:       DefaultTabWidth,
		QuitTimes:      DefaultQuitTimes,
		MessageTimeout: Duration{DefaultMessageTimeout},
		LogLevel:       DefaultLogLevel,
	}
}

// DefaultPath returns the location of the primary configuration file for the current user,
// according to the XDG base directory specification: pled/config.toml in the user's
// configuration directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pled", "config.toml"), nil
}

// Load reads the configuration file at path. It always returns a usable *Config, even if it
// also returns a non-nil error; settings that are missing or invalid keep their defaults.
// A missing file is not an error.
func Load(path string) (c *Config, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error loading config file: %w", err)
		}
	}()
	c = Default()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	defer f.Close()
	md, err := toml.NewDecoder(f).Decode(c)
	if err != nil {
		return Default(), err
	}
	problems := c.sanitize()
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		problems = append(problems, "unknown settings: "+strings.Join(keys, ", "))
	}
	if len(problems) > 0 {
		return c, fmt.Errorf("%s: %s", path, strings.Join(problems, "; "))
	}
	return c, nil
}

// sanitize replaces invalid settings with their defaults and describes what it replaced.
func (c *Config) sanitize() []string {
	var problems []string
	if c.TabWidth < 1 {
		problems = append(problems, fmt.Sprintf("tab_width must be positive, not %d", c.TabWidth))
		c.TabWidth = DefaultTabWidth
	}
	if c.QuitTimes < 1 {
		problems = append(problems, fmt.Sprintf("quit_times must be positive, not %d", c.QuitTimes))
		c.QuitTimes = DefaultQuitTimes
	}
	if c.QuitInterval.Duration < 0 {
		problems = append(problems, fmt.Sprintf("quit_interval must not be negative, not %v", c.QuitInterval))
		c.QuitInterval = Duration{}
	}
	if c.MessageTimeout.Duration <= 0 {
		problems = append(problems, fmt.Sprintf("message_timeout must be positive, not %v", c.MessageTimeout))
		c.MessageTimeout = Duration{DefaultMessageTimeout}
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		problems = append(problems, fmt.Sprintf("unknown log_level %q", c.LogLevel))
		c.LogLevel = DefaultLogLevel
	}
	return problems
}
