package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MylesJPritchett/rpn-calc/internal/config"
)

type reload struct {
	cfg *config.Config
	err error
}

func startWatcher(t *testing.T, path string) <-chan reload {
	t.Helper()

	w, err := New(path, WithDebounce(20*time.Millisecond), WithLoadOptions(config.WithoutEnv()))
	require.NoError(t, err)

	reloads := make(chan reload, 10)
	w.OnChange(func(cfg *config.Config, err error) {
		select {
		case reloads <- reload{cfg, err}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
		assert.NoError(t, w.Close())
	})
	return reloads
}

// waitReload waits for a reload accepted by match. Editors and
// os.WriteFile can produce several events, so earlier reloads may see a
// partially written file.
func waitReload(t *testing.T, reloads <-chan reload, match func(reload) bool) reload {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-reloads:
			if match(r) {
				return r
			}
		case <-deadline:
			t.Fatal("timed out waiting for reload")
			return reload{}
		}
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[display]\nprecision = 1\n"), 0o600))

	reloads := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("[display]\nprecision = 6\n"), 0o600))

	r := waitReload(t, reloads, func(r reload) bool {
		return r.err == nil && r.cfg.Display.Precision == 6
	})
	assert.Equal(t, path, r.cfg.Source)
}

func TestWatcherReloadsOnAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[display]\nshow_index = true\n"), 0o600))

	reloads := startWatcher(t, path)

	tmp := filepath.Join(dir, "config.toml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("[display]\nshow_index = false\n"), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	r := waitReload(t, reloads, func(r reload) bool {
		return r.err == nil && !r.cfg.Display.ShowIndex
	})
	assert.NotNil(t, r.cfg)
}

func TestWatcherReportsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	reloads := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("[history]\nmax_entries = -4\n"), 0o600))

	r := waitReload(t, reloads, func(r reload) bool { return r.err != nil })
	assert.Nil(t, r.cfg)
	assert.ErrorIs(t, r.err, config.ErrValidationFailed)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	w, err := New(path)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, Operation(0), w.convertOp(fsnotify.Event{Name: filepath.Join(dir, "other.toml"), Op: fsnotify.Write}))
	assert.Equal(t, Operation(0), w.convertOp(fsnotify.Event{Name: path, Op: fsnotify.Chmod}))
	assert.Equal(t, OpWrite|OpCreate, w.convertOp(fsnotify.Event{Name: path, Op: fsnotify.Write | fsnotify.Create}))
}

func TestWatcherClosed(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Run(context.Background()), ErrWatcherClosed)
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "config.toml"))
	assert.Error(t, err)
}

func TestOperationString(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.op.String())
	}
}
