//go:build js && wasm

package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
)

// NewContext creates a WebGL2 context on the window's canvas. The browser only offers BackendTypeWebGL.
//
// Parameters:
//   - backend: BackendTypeWebGL
//   - win: the browser window
//   - options: variadic list of ContextBuilderOption functions
//
// Returns:
//   - Context: the rendering context
//   - error: wrapping ErrNoContext when WebGL2 is unavailable
//
// The returned context is lost when the canvas' previous context was; call Restore before use.
func NewContext(backend BackendType, win window.Window, options ...ContextBuilderOption) (Context, error) {
	cfg := newContextConfig(options)

	if backend != BackendTypeWebGL {
		return nil, fmt.Errorf("%w: backend %s is not available in the browser", ErrNoContext, backend)
	}
	browser, ok := win.(window.BrowserWindow)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a browser window", ErrNoContext, win)
	}
	c, err := newWebGLContext(browser.Canvas(), browser.ReplaceCanvas, cfg.logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}
