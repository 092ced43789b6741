package config

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn or error.
	Level string

	// File is the log destination. Empty means the application default.
	File string
}

// HistoryConfig holds undo/redo settings.
type HistoryConfig struct {
	// MaxEntries caps the undo history. Zero means unbounded.
	MaxEntries int
}

// DisplayConfig holds stack display settings.
type DisplayConfig struct {
	// Precision is the number of decimals shown; -1 means shortest.
	Precision int

	// ShowIndex prefixes each stack entry with its depth.
	ShowIndex bool
}

// PluginsConfig holds Lua word settings.
type PluginsConfig struct {
	// Enabled turns Lua words on.
	Enabled bool

	// Scripts are the Lua files to load, in order.
	Scripts []string

	// InstructionLimit caps the VM instructions per script run or word call.
	InstructionLimit int
}

// MetricsConfig holds metrics settings.
type MetricsConfig struct {
	// Enabled turns Prometheus metrics on.
	Enabled bool
}

// fromMap builds typed sections from a merged configuration map.
// Missing settings keep their defaults; mistyped settings are reported.
func fromMap(m map[string]any) (*Config, error) {
	d := Default()
	r := reader{data: m}

	cfg := &Config{
		Logging: LoggingConfig{
			Level: r.stringOr("logging.level", d.Logging.Level),
			File:  r.stringOr("logging.file", d.Logging.File),
		},
		History: HistoryConfig{
			MaxEntries: r.intOr("history.max_entries", d.History.MaxEntries),
		},
		Display: DisplayConfig{
			Precision: r.intOr("display.precision", d.Display.Precision),
			ShowIndex: r.boolOr("display.show_index", d.Display.ShowIndex),
		},
		Plugins: PluginsConfig{
			Enabled:          r.boolOr("plugins.enabled", d.Plugins.Enabled),
			Scripts:          r.stringSliceOr("plugins.scripts", d.Plugins.Scripts),
			InstructionLimit: r.intOr("plugins.instruction_limit", d.Plugins.InstructionLimit),
		},
		Metrics: MetricsConfig{
			Enabled: r.boolOr("metrics.enabled", d.Metrics.Enabled),
		},
	}

	return cfg, r.err()
}
