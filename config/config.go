// Package config reads browser session settings from a key=value file, with
// environment variables taking precedence.
//
// Keys are dotted (grid.ip). The environment variable for a key is its
// upper-cased form with dots and dashes replaced by underscores (GRID_IP).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Known keys.
const (
	GridIP         = "grid.ip"
	GridPort       = "grid.port"
	GridBrowser    = "grid.browser"
	GridVersion    = "grid.version"
	GridPlatform   = "grid.platform"
	GridMinVersion = "grid.min_selenium"

	BrowserHeadless = "browser.headless"
	BrowserBinary   = "browser.binary"
	BrowserXvfb     = "browser.xvfb"
	BrowserLogLevel = "browser.log_level"

	ChromeDriverPath = "chromedriver.path"
	GeckoDriverPath  = "geckodriver.path"
	DriverPort       = "driver.port"

	SauceUser     = "sauce.user"
	SauceKey      = "sauce.key"
	SaucePlatform = "sauce.platform"

	PauseInterval = "pause.interval"
	PauseProbe    = "pause.probe"
	PauseTimeout  = "pause.timeout"

	HooksFile = "hooks.file"
)

// Defaults for keys that have one.
const (
	DefaultGridPort     = 4444
	DefaultGridBrowser  = "chrome"
	DefaultDriverPort   = 9515
	DefaultPauseTimeout = 10 * time.Second
)

// Config holds the settings read from a file.
type Config struct {
	path   string
	values map[string]string
}

// Load reads the file at path. An empty path yields a Config backed by the
// environment only.
func Load(path string) (*Config, error) {
	c := &Config{path: path, values: make(map[string]string)}
	if path == "" {
		return c, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %q: %w", path, err)
	}
	for k, v := range values {
		c.values[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return c, nil
}

// FromMap returns a Config holding values.
func FromMap(values map[string]string) *Config {
	c := &Config{values: make(map[string]string, len(values))}
	for k, v := range values {
		c.values[strings.ToLower(k)] = v
	}
	return c
}

// Path returns the file the Config was loaded from, if any.
func (c *Config) Path() string { return c.path }

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// Lookup returns the value of key and whether it is set.
func (c *Config) Lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(EnvName(key)); ok {
		return v, true
	}
	v, ok := c.values[strings.ToLower(key)]
	return v, ok
}

// Set overrides key for the lifetime of c. The environment still wins.
func (c *Config) Set(key, value string) {
	c.values[strings.ToLower(key)] = value
}

// String returns the value of key, or def when it is unset or empty.
func (c *Config) String(key, def string) string {
	if v, ok := c.Lookup(key); ok && v != "" {
		return v
	}
	return def
}

// Int returns the integer value of key, or def when it is unset.
func (c *Config) Int(key string, def int) (int, error) {
	v, ok := c.Lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

// Bool returns the boolean value of key, or def when it is unset.
func (c *Config) Bool(key string, def bool) (bool, error) {
	v, ok := c.Lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

// Duration returns the duration value of key, or def when it is unset. A
// bare integer is read as milliseconds.
func (c *Config) Duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := c.Lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	v = strings.TrimSpace(v)
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
