//go:build js && wasm

package theme

import (
	"strings"
	"syscall/js"
)

// CSSVariable reads a custom property from the document root's computed style on every call.
type CSSVariable string

// BackgroundColor returns the trimmed value of the custom property.
func (c CSSVariable) BackgroundColor() string {
	root := js.Global().Get("document").Get("documentElement")
	style := js.Global().Call("getComputedStyle", root)
	return strings.TrimSpace(style.Call("getPropertyValue", string(c)).String())
}
