package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestTOMLLoader(t *testing.T) {
	path := writeFile(t, "config.toml", `
[history]
max_entries = 50

[display]
precision = 3
show_index = false

[plugins]
scripts = ["a.lua", "b.lua"]
`)

	config, err := NewTOMLLoader(path).Load()
	require.NoError(t, err)

	v, ok := GetByPath(config, "history.max_entries")
	require.True(t, ok)
	assert.Equal(t, int64(50), v)

	v, ok = GetByPath(config, "display.show_index")
	require.True(t, ok)
	assert.Equal(t, false, v)

	v, ok = GetByPath(config, "plugins.scripts")
	require.True(t, ok)
	assert.Equal(t, []any{"a.lua", "b.lua"}, v)
}

func TestTOMLLoaderMissingFile(t *testing.T) {
	config, err := NewTOMLLoader(filepath.Join(t.TempDir(), "nope.toml")).Load()
	assert.NoError(t, err)
	assert.Nil(t, config)
}

func TestTOMLLoaderParseError(t *testing.T) {
	path := writeFile(t, "bad.toml", "[display]\nprecision = = 3\n")

	_, err := NewTOMLLoader(path).Load()
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, path, perr.Path)
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, perr.Error(), "line 2")
}

func TestTOMLLoaderFromReader(t *testing.T) {
	config, err := NewTOMLLoader("").LoadFromReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, config)
}

func TestYAMLLoader(t *testing.T) {
	path := writeFile(t, "config.yaml", `
logging:
  level: debug
display:
  precision: 2
plugins:
  enabled: true
  scripts:
    - words.lua
`)

	config, err := NewYAMLLoader(path).Load()
	require.NoError(t, err)

	v, ok := GetByPath(config, "logging.level")
	require.True(t, ok)
	assert.Equal(t, "debug", v)

	v, ok = GetByPath(config, "display.precision")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = GetByPath(config, "plugins.scripts")
	require.True(t, ok)
	assert.Equal(t, []any{"words.lua"}, v)
}

func TestYAMLLoaderParseError(t *testing.T) {
	path := writeFile(t, "bad.yml", "display: [unclosed\n")

	_, err := NewYAMLLoader(path).Load()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, path, perr.Path)
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want any
	}{
		{"a.toml", &TOMLLoader{}},
		{"a.TOML", &TOMLLoader{}},
		{"a.yaml", &YAMLLoader{}},
		{"a.yml", &YAMLLoader{}},
	}
	for _, tt := range tests {
		l, err := ForPath(nil, tt.path)
		require.NoError(t, err, tt.path)
		assert.IsType(t, tt.want, l, tt.path)
	}

	_, err := ForPath(nil, "a.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEnvLoader(t *testing.T) {
	l := NewEnvLoader("RPNCALC_")
	l.environ = func() []string {
		return []string{
			"RPNCALC_LOG_LEVEL=debug",
			"RPNCALC_HISTORY_MAX_ENTRIES=1",
			"RPNCALC_DISPLAY_PRECISION=-1",
			"RPNCALC_PLUGINS_ENABLED=yes",
			`RPNCALC_PLUGINS_SCRIPTS=["x.lua"]`,
			"RPNCALC_METRICS_ENABLED=off",
			"RPNCALC_DISPLAY_SHOW_INDEX=false",
			"RPNCALC_BOGUS=1",
			"HOME=/root",
		}
	}

	config, err := l.Load()
	require.NoError(t, err)

	expect := map[string]any{
		"logging.level":       "debug",
		"history.max_entries": int64(1),
		"display.precision":   int64(-1),
		"plugins.enabled":     true,
		"plugins.scripts":     []any{"x.lua"},
		"metrics.enabled":     false,
		"display.show_index":  false,
	}
	for path, want := range expect {
		got, ok := GetByPath(config, path)
		require.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}

	_, ok := GetByPath(config, "bogus")
	assert.False(t, ok, "variables without a key part are skipped")
	assert.NotContains(t, config, "home")
}

func TestEnvLoaderAddMapping(t *testing.T) {
	l := NewEnvLoaderWithMapping("RPN_", nil)
	l.AddMapping("RPN_P", "display.precision")
	l.environ = func() []string { return []string{"RPN_P=4"} }

	config, err := l.Load()
	require.NoError(t, err)
	v, ok := GetByPath(config, "display.precision")
	require.True(t, ok)
	assert.Equal(t, int64(4), v)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"On", true},
		{"no", false},
		{"0", int64(0)},
		{"1", int64(1)},
		{"-3", int64(-3)},
		{"2.5", 2.5},
		{`["a"]`, []any{"a"}},
		{"[broken", "[broken"},
		{"warn", "warn"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseValue(tt.in), tt.in)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"display": map[string]any{"precision": -1, "show_index": true},
		"logging": map[string]any{"level": "info"},
	}
	src := map[string]any{
		"display": map[string]any{"precision": 2},
		"metrics": map[string]any{"enabled": false},
	}

	got := DeepMerge(dst, src)

	assert.Equal(t, map[string]any{
		"display": map[string]any{"precision": 2, "show_index": true},
		"logging": map[string]any{"level": "info"},
		"metrics": map[string]any{"enabled": false},
	}, got)

	assert.Equal(t, map[string]any{}, DeepMerge(nil, nil))
}

func TestSetGetByPath(t *testing.T) {
	m := map[string]any{}
	SetByPath(m, "a.b.c", 1)
	SetByPath(m, "a.d", "x")

	v, ok := GetByPath(m, "a.b.c")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = GetByPath(m, "a.d.e")
	assert.False(t, ok)
	_, ok = GetByPath(m, "z")
	assert.False(t, ok)
}
