//go:build js && wasm

package main

import (
	"context"
	"syscall/js"

	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-backdrop/engine"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/theme"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
	"github.com/Carmen-Shannon/oxy-backdrop/logger"
)

// profileGlobal is the page global through which the UI layer reads the detected profile.
const profileGlobal = "backdropProfile"

func main() {
	log, err := logger.New(logger.Config{Environment: "production", Level: "warn", Service: "backdrop-wasm"})
	if err != nil {
		log = zap.NewNop()
	}

	win, err := window.NewWindow(window.WithLogger(log.Named("window")))
	if err != nil {
		log.Error("no host window", zap.Error(err))
		return
	}

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithBackend(renderer.BackendTypeWebGL),
		engine.WithTheme(theme.CSSVariable("--bg-color")),
		engine.WithDiagnosticSink(shader.NewLogSink(log.Named("shader"))),
		engine.WithLogger(log),
	)
	if err := eng.Init(); err != nil {
		// The page keeps its static background.
		log.Warn("backdrop unavailable", zap.Error(err))
		eng.Quit()
		return
	}
	publishProfile(eng.Profile())

	eng.Run(context.Background())
}

func publishProfile(p capability.Profile) {
	js.Global().Set(profileGlobal, js.ValueOf(map[string]any{
		"tier":             p.Tier().String(),
		"lowPerf":          p.LowPerf,
		"uiInitDelayMs":    p.UIInitDelay().Milliseconds(),
		"animatedSelector": p.AnimatedSelector(),
	}))
}
