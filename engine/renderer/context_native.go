//go:build !js

package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
)

// NewContext creates a rendering context for a desktop window.
//
// Parameters:
//   - backend: BackendTypeGL or BackendTypeWGPU
//   - win: the host window, which must have been created with the matching client API
//   - options: variadic list of ContextBuilderOption functions
//
// Returns:
//   - Context: the rendering context
//   - error: wrapping ErrNoContext when the backend cannot be created on this window
func NewContext(backend BackendType, win window.Window, options ...ContextBuilderOption) (Context, error) {
	cfg := newContextConfig(options)

	native, ok := win.(window.NativeWindow)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a desktop window", ErrNoContext, win)
	}

	switch backend {
	case BackendTypeGL:
		c, err := newGLContext(native, cfg.logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendTypeWGPU:
		c, err := newWGPUContext(native.SurfaceDescriptor(), cfg.presentMode, cfg.logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: backend %s is not available on the desktop", ErrNoContext, backend)
	}
}
