package window

import (
	"go.uber.org/zap"
)

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithWidth sets the initial window width in logical pixels. Ignored in the browser.
//
// Parameters:
//   - width: initial width
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
	}
}

// WithHeight sets the initial window height in logical pixels. Ignored in the browser.
//
// Parameters:
//   - height: initial height
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = height
	}
}

// WithClientAPI selects the graphics API the window is created for.
//
// Parameters:
//   - api: ClientAPIOpenGL for the GL backend, ClientAPINone for WebGPU
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithClientAPI(api ClientAPI) WindowBuilderOption {
	return func(w *engineWindow) {
		w.clientAPI = api
	}
}

// WithVSync sets whether buffer swaps wait for vertical blank. Only affects OpenGL windows.
//
// Parameters:
//   - enabled: true to sync swaps to the display refresh
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithVSync(enabled bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.vsync = enabled
	}
}

// WithLogger sets the logger for window events.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) WindowBuilderOption {
	return func(w *engineWindow) {
		if logger != nil {
			w.logger = logger.Named("window")
		}
	}
}
