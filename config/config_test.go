package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("BACKDROP_BACKEND", "wgpu")
	t.Setenv("BACKDROP_WIDTH", "1920")
	t.Setenv("BACKDROP_VSYNC", "false")
	t.Setenv("BACKDROP_BACKGROUND", "#1a1a2e")
	t.Setenv("BACKDROP_PROFILING", "1")
	t.Setenv("BACKDROP_ENV", "development")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, BackendWGPU, cfg.Backend)
	assert.Equal(t, 1920, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.False(t, cfg.VSync)
	assert.Equal(t, "#1a1a2e", cfg.Background)
	assert.True(t, cfg.Profiling)
	assert.Equal(t, EnvDevelopment, cfg.Environment)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("BACKDROP_BACKEND", "wgpu")
	t.Setenv("BACKDROP_LOG_LEVEL", "warn")

	cfg, err := Load([]string{"-backend", "gl", "-log-level", "debug", "-metrics-addr", ":9090", "-theme", "theme.yaml"})
	require.NoError(t, err)

	assert.Equal(t, BackendGL, cfg.Backend)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, "theme.yaml", cfg.ThemeFile)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tcs := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"unknown backend", nil, []string{"-backend", "vulkan"}},
		{"zero width", nil, []string{"-width", "0"}},
		{"negative height", map[string]string{"BACKDROP_HEIGHT": "-1"}, nil},
		{"width not a number", map[string]string{"BACKDROP_WIDTH": "wide"}, nil},
		{"vsync not a bool", map[string]string{"BACKDROP_VSYNC": "sometimes"}, nil},
		{"named background", nil, []string{"-background", "red"}},
		{"background without hash", nil, []string{"-background", "fff"}},
		{"unknown log level", nil, []string{"-log-level", "trace"}},
		{"unknown environment", map[string]string{"BACKDROP_ENV": "staging"}, nil},
		{"unknown flag", nil, []string{"-fullscreen"}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			cfg, err := Load(tc.args)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, cfg)
		})
	}
}
