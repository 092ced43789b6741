package plugin

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/MylesJPritchett/rpn-calc/internal/config"
)

// Load builds a registry from the plugins section and runs its scripts in
// order. It returns nil, nil when plugins are disabled.
//
// A failing script does not stop the others: the registry is returned
// with every word that did register, together with the joined errors.
func Load(cfg config.PluginsConfig, opts ...Option) (*Registry, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opts = append([]Option{WithInstructionLimit(cfg.InstructionLimit)}, opts...)
	o := buildOptions(opts)

	r, err := NewRegistry(opts...)
	if err != nil {
		return nil, err
	}

	var loadErrors []error
	for _, script := range cfg.Scripts {
		path := script
		if o.baseDir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(o.baseDir, path)
		}
		if err := r.LoadFile(path); err != nil {
			loadErrors = append(loadErrors, err)
		}
	}

	if len(loadErrors) > 0 {
		return r, fmt.Errorf("failed to load %d scripts: %w", len(loadErrors), errors.Join(loadErrors...))
	}
	return r, nil
}
