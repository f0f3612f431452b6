package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
)

// ErrInvalidConfig is wrapped by every validation and parse error returned from Load.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes every environment variable Load reads.
const EnvPrefix = "BACKDROP_"

const (
	BackendGL   = "gl"
	BackendWGPU = "wgpu"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Config holds the desktop entry point's settings.
type Config struct {
	Backend     string
	Width       int
	Height      int
	Title       string
	VSync       bool
	ThemeFile   string
	Background  string
	MetricsAddr string
	LogLevel    string
	Environment string
	Profiling   bool
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Backend:     BackendGL,
		Width:       1280,
		Height:      720,
		Title:       "oxy-backdrop",
		VSync:       true,
		Background:  "#000000",
		LogLevel:    "info",
		Environment: EnvProduction,
	}
}

// Load builds a Config from defaults, then BACKDROP_* environment variables, then command line flags.
//
// Parameters:
//   - args: the command line arguments without the program name
//
// Returns:
//   - *Config: the validated configuration
//   - error: wrapping ErrInvalidConfig when a value cannot be parsed or is out of range
func Load(args []string) (*Config, error) {
	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("backdrop", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "rendering backend: gl or wgpu")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "initial window width in logical pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "initial window height in logical pixels")
	fs.StringVar(&cfg.Title, "title", cfg.Title, "window title")
	fs.BoolVar(&cfg.VSync, "vsync", cfg.VSync, "synchronize presentation with the display")
	fs.StringVar(&cfg.ThemeFile, "theme", cfg.ThemeFile, "YAML theme file watched for background changes")
	fs.StringVar(&cfg.Background, "background", cfg.Background, "background color when no theme file is set")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "address serving /metrics, empty disables")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.Environment, "env", cfg.Environment, "development or production")
	fs.BoolVar(&cfg.Profiling, "profile", cfg.Profiling, "log frame rate and heap statistics")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Backend = common.Coalesce(getenv("BACKEND"), c.Backend)
	c.Title = common.Coalesce(getenv("TITLE"), c.Title)
	c.ThemeFile = common.Coalesce(getenv("THEME_FILE"), c.ThemeFile)
	c.Background = common.Coalesce(getenv("BACKGROUND"), c.Background)
	c.MetricsAddr = common.Coalesce(getenv("METRICS_ADDR"), c.MetricsAddr)
	c.LogLevel = common.Coalesce(getenv("LOG_LEVEL"), c.LogLevel)
	c.Environment = common.Coalesce(getenv("ENV"), c.Environment)

	var err error
	if v := getenv("WIDTH"); v != "" {
		if c.Width, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("%w: %sWIDTH: %v", ErrInvalidConfig, EnvPrefix, err)
		}
	}
	if v := getenv("HEIGHT"); v != "" {
		if c.Height, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("%w: %sHEIGHT: %v", ErrInvalidConfig, EnvPrefix, err)
		}
	}
	if v := getenv("VSYNC"); v != "" {
		if c.VSync, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("%w: %sVSYNC: %v", ErrInvalidConfig, EnvPrefix, err)
		}
	}
	if v := getenv("PROFILING"); v != "" {
		if c.Profiling, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("%w: %sPROFILING: %v", ErrInvalidConfig, EnvPrefix, err)
		}
	}
	return nil
}

// Validate checks every field.
//
// Returns:
//   - error: wrapping ErrInvalidConfig for the first invalid field
func (c *Config) Validate() error {
	switch {
	case c.Backend != BackendGL && c.Backend != BackendWGPU:
		return fmt.Errorf("%w: backend %q", ErrInvalidConfig, c.Backend)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case !hexColor.MatchString(c.Background):
		return fmt.Errorf("%w: background %q", ErrInvalidConfig, c.Background)
	case !logLevels[c.LogLevel]:
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	case c.Environment != EnvDevelopment && c.Environment != EnvProduction:
		return fmt.Errorf("%w: environment %q", ErrInvalidConfig, c.Environment)
	}
	return nil
}

func getenv(key string) string {
	return os.Getenv(EnvPrefix + key)
}
