package theme

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrNoBackground is returned when a theme file has no background entry.
var ErrNoBackground = errors.New("theme file has no background")

// document is the on-disk theme format.
//
//	background: "#1a1a2e"
type document struct {
	Background string `yaml:"background"`
}

// FileSource reads the background color from a YAML theme file and reloads it when the file changes.
type FileSource struct {
	*Value

	path     string
	debounce time.Duration
	logger   *zap.Logger
}

// FileSourceOption configures a FileSource.
type FileSourceOption func(f *FileSource)

// WithDebounce sets how long file events settle before the file is re-read.
//
// Parameters:
//   - d: the settle interval
//
// Returns:
//   - FileSourceOption: option function to apply
func WithDebounce(d time.Duration) FileSourceOption {
	return func(f *FileSource) {
		f.debounce = d
	}
}

// WithLogger sets the logger for reload events.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - FileSourceOption: option function to apply
func WithLogger(logger *zap.Logger) FileSourceOption {
	return func(f *FileSource) {
		f.logger = logger
	}
}

// NewFileSource loads path once and returns a source holding its background.
//
// Parameters:
//   - path: the YAML theme file
//   - options: functional options
//
// Returns:
//   - *FileSource: the source
//   - error: if the file cannot be read or has no background
func NewFileSource(path string, options ...FileSourceOption) (*FileSource, error) {
	f := &FileSource{
		path:     path,
		debounce: 100 * time.Millisecond,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		opt(f)
	}

	color, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	f.Value = NewValue(color)
	return f, nil
}

// ReadFile parses the background color from a YAML theme file.
//
// Parameters:
//   - path: the YAML theme file
//
// Returns:
//   - string: the background color
//   - error: if the file cannot be read, parsed or has no background
func ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read theme %s: %w", path, err)
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("failed to parse theme %s: %w", path, err)
	}
	if doc.Background == "" {
		return "", fmt.Errorf("%s: %w", path, ErrNoBackground)
	}
	return doc.Background, nil
}

// Watch reloads the file whenever it is written or replaced until ctx is cancelled.
// A reload that fails keeps the previous color.
//
// Parameters:
//   - ctx: cancels the watch
//
// Returns:
//   - error: if the watcher cannot be started, nil on cancellation
func (f *FileSource) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so the directory is watched and events filtered by name.
	dir := filepath.Dir(f.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	target := filepath.Clean(f.path)

	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C

	f.logger.Info("watching theme file", zap.String("path", f.path))
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			debounceTimer.Reset(f.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Error("theme watcher error", zap.Error(err))

		case <-debounceTimer.C:
			f.reload()

		case <-ctx.Done():
			f.logger.Info("stopping theme watcher")
			return nil
		}
	}
}

func (f *FileSource) reload() {
	color, err := ReadFile(f.path)
	if err != nil {
		f.logger.Warn("theme reload failed", zap.Error(err))
		return
	}
	if color == f.BackgroundColor() {
		return
	}
	f.Set(color)
	f.logger.Info("theme reloaded", zap.String("background", color))
}
