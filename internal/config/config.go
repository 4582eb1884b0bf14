package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// NOTE: The YAML file is the base layer. TSCONV_* environment variables
// (launcher workflow variables arrive this way) override it, and a .env file
// next to the binary can supply those variables during development.

// IconConfig holds icon paths for script filter items.
type IconConfig struct {
	Clock    string `yaml:"clock" json:"clock" env:"TSCONV_ICON_CLOCK"`
	Calendar string `yaml:"calendar" json:"calendar" env:"TSCONV_ICON_CALENDAR"`
	Error    string `yaml:"error" json:"error" env:"TSCONV_ICON_ERROR"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for serve mode.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA zone used for the local-time candidate
	// (e.g. "Asia/Seoul"). "Local" uses the system zone; "" disables it.
	Timezone string `yaml:"timezone" json:"timezone" env:"TSCONV_TIMEZONE"`

	// RFC2822 adds an RFC 2822 rendering for numeric input.
	RFC2822 bool `yaml:"rfc2822" json:"rfc2822" env:"TSCONV_RFC2822"`

	// Microseconds adds a microsecond epoch value for date input.
	Microseconds bool `yaml:"microseconds" json:"microseconds" env:"TSCONV_MICROSECONDS"`

	// Relative adds a "4 days 3 hours ago" style candidate for numeric input.
	Relative bool `yaml:"relative" json:"relative" env:"TSCONV_RELATIVE"`

	// ICalendar adds an iCalendar DATE-TIME rendering for numeric input.
	ICalendar bool `yaml:"icalendar" json:"icalendar" env:"TSCONV_ICALENDAR"`

	// CurrentTime appends the current time after every successful result.
	CurrentTime bool `yaml:"current_time" json:"current_time" env:"TSCONV_CURRENT_TIME"`

	// LogLevel is one of "debug", "info", "error".
	LogLevel string `yaml:"log_level" json:"log_level" env:"TSCONV_LOG_LEVEL"`

	// Listen is the HTTP listen address for serve mode.
	Listen string `yaml:"listen" json:"listen" env:"TSCONV_LISTEN"`

	Icons IconConfig `yaml:"icons" json:"icons"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on
	// /api/convert. /health stays open.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

const (
	defaultListen       = "127.0.0.1:8080"
	defaultLogLevel     = "info"
	defaultIconClock    = "icon.png"
	defaultIconCalendar = "/System/Applications/Calendar.app"
	defaultIconError    = "/System/Library/CoreServices/CoreTypes.bundle/Contents/Resources/AlertStopIcon.icns"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone:     "Local",
		RFC2822:      true,
		Microseconds: true,
		Relative:     true,
		ICalendar:    false,
		CurrentTime:  true,
		LogLevel:     defaultLogLevel,
		Listen:       defaultListen,
		Icons: IconConfig{
			Clock:    defaultIconClock,
			Calendar: defaultIconCalendar,
			Error:    defaultIconError,
		},
		BasicAuth: nil,
	}
}

// Normalize fills in missing string values so that partially-filled files
// still behave. Booleans are taken as written.
func (c *Config) Normalize() {
	c.Timezone = strings.TrimSpace(c.Timezone)
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug", "info", "error":
		c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	default:
		c.LogLevel = defaultLogLevel
	}
	if c.Icons.Clock == "" {
		c.Icons.Clock = defaultIconClock
	}
	if c.Icons.Calendar == "" {
		c.Icons.Calendar = defaultIconCalendar
	}
	if c.Icons.Error == "" {
		c.Icons.Error = defaultIconError
	}
	if c.BasicAuth != nil && (c.BasicAuth.Username == "" || c.BasicAuth.Password == "") {
		c.BasicAuth = nil
	}
}

// Location resolves Timezone. A nil location means the local-time
// candidate is disabled.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "":
		return nil, nil
	case "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DefaultPath picks the config location. The launcher exports a per-workflow
// data directory; outside of it the user config directory is used.
func DefaultPath() string {
	if dir := os.Getenv("alfred_workflow_data"); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tsconv", "config.yaml")
	}
	return "tsconv.yaml"
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - write a default config with 0600 perms (creating the directory)
//   - If the file exists:
//   - unmarshal YAML on top of the defaults, so omitted keys keep them
//   - In both cases:
//   - apply TSCONV_* environment overrides
//   - normalize
//
// On error the returned config is still usable (defaults plus whatever was
// applied) so callers can log and continue.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// First run: create default config file.
		if err := Save(path, cfg); err != nil {
			return withEnv(cfg), fmt.Errorf("config: write default: %w", err)
		}
	case err != nil:
		return withEnv(cfg), fmt.Errorf("config: read: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return withEnv(DefaultConfig()), fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		cfg.Normalize()
		return cfg, fmt.Errorf("config: env overrides: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// withEnv applies environment overrides on a best-effort basis.
func withEnv(cfg *Config) *Config {
	_ = cleanenv.ReadEnv(cfg)
	cfg.Normalize()
	return cfg
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

// Save normalizes cfg and writes it to path as YAML with 0600 permissions.
// The file is replaced atomically.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := writeFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file in path's directory and
// renames it over path.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Save is a convenience method that delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
