package config

import (
	"errors"
	"math"
	"strings"

	"github.com/MylesJPritchett/rpn-calc/internal/config/loader"
)

// reader extracts typed values from a configuration map, collecting type
// errors instead of failing on the first one.
type reader struct {
	data map[string]any
	errs []error
}

func (r *reader) err() error {
	return errors.Join(r.errs...)
}

func (r *reader) mismatch(path, expected string, v any) {
	r.errs = append(r.errs, &TypeError{Path: path, Expected: expected, Value: v})
}

func (r *reader) stringOr(path, def string) string {
	v, ok := loader.GetByPath(r.data, path)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		r.mismatch(path, "string", v)
		return def
	}
	return s
}

func (r *reader) intOr(path string, def int) int {
	v, ok := loader.GetByPath(r.data, path)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		if n <= math.MaxInt32 {
			return int(n)
		}
	case float64:
		if n == math.Trunc(n) && math.Abs(n) <= math.MaxInt32 {
			return int(n)
		}
	}
	r.mismatch(path, "integer", v)
	return def
}

func (r *reader) boolOr(path string, def bool) bool {
	v, ok := loader.GetByPath(r.data, path)
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		if b == 0 || b == 1 {
			return b == 1
		}
	}
	r.mismatch(path, "boolean", v)
	return def
}

func (r *reader) stringSliceOr(path string, def []string) []string {
	v, ok := loader.GetByPath(r.data, path)
	if !ok {
		return cloneStrings(def)
	}
	switch s := v.(type) {
	case []string:
		return cloneStrings(s)
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				r.mismatch(path, "list of strings", v)
				return cloneStrings(def)
			}
			out = append(out, str)
		}
		return out
	case string:
		// Comma-separated, as set from the environment.
		if s == "" {
			return []string{}
		}
		parts := strings.Split(s, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	r.mismatch(path, "list of strings", v)
	return cloneStrings(def)
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
