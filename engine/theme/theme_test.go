package theme

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTheme(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestStatic(t *testing.T) {
	var s Source = Static("#fff")
	assert.Equal(t, "#fff", s.BackgroundColor())
}

func TestValue(t *testing.T) {
	v := NewValue("#000")
	assert.Equal(t, "#000", v.BackgroundColor())
	v.Set("#ff0000")
	assert.Equal(t, "#ff0000", v.BackgroundColor())
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	ok := filepath.Join(dir, "ok.yaml")
	writeTheme(t, ok, "background: \"#1a1a2e\"\n")
	color, err := ReadFile(ok)
	require.NoError(t, err)
	assert.Equal(t, "#1a1a2e", color)

	empty := filepath.Join(dir, "empty.yaml")
	writeTheme(t, empty, "foreground: \"#fff\"\n")
	_, err = ReadFile(empty)
	assert.True(t, errors.Is(err, ErrNoBackground))

	broken := filepath.Join(dir, "broken.yaml")
	writeTheme(t, broken, "background: [unterminated\n")
	_, err = ReadFile(broken)
	assert.Error(t, err)

	_, err = ReadFile(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestNewFileSourceFailsWithoutFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFileSourceReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	writeTheme(t, path, "background: \"#000000\"\n")

	src, err := NewFileSource(path, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, "#000000", src.BackgroundColor())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Watch(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)
	writeTheme(t, path, "background: \"#ff0000\"\n")

	require.Eventually(t, func() bool {
		return src.BackgroundColor() == "#ff0000"
	}, 2*time.Second, 10*time.Millisecond)

	// A broken write keeps the last good color.
	writeTheme(t, path, "background: \"\"\n")
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, "#ff0000", src.BackgroundColor())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
