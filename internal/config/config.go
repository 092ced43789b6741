package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MylesJPritchett/rpn-calc/internal/config/loader"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "RPNCALC_"

// Config is the complete, typed application configuration.
type Config struct {
	Logging LoggingConfig
	History HistoryConfig
	Display DisplayConfig
	Plugins PluginsConfig
	Metrics MetricsConfig

	// Source is the file the configuration was read from, empty when only
	// defaults and the environment were used.
	Source string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		History: HistoryConfig{MaxEntries: 0},
		Display: DisplayConfig{Precision: -1, ShowIndex: true},
		Plugins: PluginsConfig{
			Enabled:          false,
			Scripts:          []string{},
			InstructionLimit: 1_000_000,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Plugins.Scripts = cloneStrings(c.Plugins.Scripts)
	return &out
}

// validLevels are the accepted logging.level values.
var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error
	fail := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if !validLevels[strings.ToLower(c.Logging.Level)] {
		fail("logging.level", "must be one of debug, info, warn, error", c.Logging.Level)
	}
	if c.History.MaxEntries < 0 {
		fail("history.max_entries", "must not be negative", c.History.MaxEntries)
	}
	if c.Display.Precision < -1 {
		fail("display.precision", "must be -1 or greater", c.Display.Precision)
	}
	if c.Plugins.InstructionLimit <= 0 {
		fail("plugins.instruction_limit", "must be positive", c.Plugins.InstructionLimit)
	}
	for i, s := range c.Plugins.Scripts {
		if strings.TrimSpace(s) == "" {
			fail(fmt.Sprintf("plugins.scripts[%d]", i), "must not be empty", s)
		}
	}

	return errors.Join(errs...)
}

// DefaultPath returns the default config file location:
// $XDG_CONFIG_HOME/rpncalc/config.toml, or ~/.config/rpncalc/config.toml.
// Returns "" when no home directory can be determined.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rpncalc", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "rpncalc", "config.toml")
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	path      string
	fs        loader.FileSystem
	envPrefix string
	useEnv    bool
}

// WithPath loads the named file, which must exist.
func WithPath(path string) Option {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithFS sets the file system used to read config files.
func WithFS(fs loader.FileSystem) Option {
	return func(o *loadOptions) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *loadOptions) {
		o.envPrefix = prefix
	}
}

// WithoutEnv disables environment variable overrides.
func WithoutEnv() Option {
	return func(o *loadOptions) {
		o.useEnv = false
	}
}

// Load builds the configuration from defaults, the config file and the
// environment, then validates it.
func Load(opts ...Option) (*Config, error) {
	o := loadOptions{
		fs:        loader.DefaultFS(),
		envPrefix: EnvPrefix,
		useEnv:    true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	explicit := o.path != ""
	path := o.path
	if !explicit {
		path = DefaultPath()
	}

	merged := make(map[string]any)
	source := ""

	if path != "" {
		fileMap, err := loadFile(o.fs, path, explicit)
		if err != nil {
			return nil, err
		}
		if fileMap != nil {
			merged = loader.DeepMerge(merged, fileMap)
			source = path
		}
	}

	if o.useEnv {
		envMap, err := loader.NewEnvLoader(o.envPrefix).Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, envMap)
	}

	cfg, err := fromMap(merged)
	if err != nil {
		return nil, err
	}
	cfg.Source = source

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile reads one config file. A missing file is an error only when
// the path was given explicitly.
func loadFile(fs loader.FileSystem, path string, explicit bool) (map[string]any, error) {
	if _, err := fs.Stat(path); err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("checking config file %s: %w", path, err)
	}

	fl, err := loader.ForPath(fs, path)
	if err != nil {
		return nil, err
	}
	m, err := fl.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}
