package loader

import "errors"

// ErrUnsupportedFormat indicates a config file extension with no loader.
var ErrUnsupportedFormat = errors.New("unsupported config format")
