// Package config provides the configuration system for rpncalc.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← RPNCALC_*, highest priority
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/rpncalc/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Command line flags are applied by the caller on top of the loaded
// Config.
//
// # Sub-packages
//
//   - loader: file loading (TOML, YAML) and environment variables
//   - watcher: fsnotify-based live reload
//
// # Basic Usage
//
//	cfg, err := config.Load(config.WithPath(path))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Display.Precision)
//
// A file named explicitly with WithPath must exist. When no path is given
// the default path is tried and a missing file means built-in defaults.
package config
