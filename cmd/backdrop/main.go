//go:build !js

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Carmen-Shannon/oxy-backdrop/config"
	"github.com/Carmen-Shannon/oxy-backdrop/engine"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/metrics"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/theme"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
	"github.com/Carmen-Shannon/oxy-backdrop/logger"
)

// GLFW and the GL context must stay on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Service:     "backdrop",
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	var background theme.Source = theme.Static(cfg.Background)
	if cfg.ThemeFile != "" {
		fileSource, err := theme.NewFileSource(cfg.ThemeFile, theme.WithLogger(log.Named("theme")))
		if err != nil {
			return fmt.Errorf("failed to load theme: %w", err)
		}
		background = fileSource
		g.Go(func() error { return fileSource.Watch(gctx) })
	}

	collectors := metrics.NewCollectors()
	if cfg.MetricsAddr != "" {
		serveMetrics(g, gctx, cfg.MetricsAddr, collectors, log)
	}

	backend, api := renderer.BackendTypeGL, window.ClientAPIOpenGL
	if cfg.Backend == config.BackendWGPU {
		backend, api = renderer.BackendTypeWGPU, window.ClientAPINone
	}
	presentMode := renderer.PresentModeVSync
	if !cfg.VSync {
		presentMode = renderer.PresentModeUncapped
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Title),
		window.WithWidth(cfg.Width),
		window.WithHeight(cfg.Height),
		window.WithClientAPI(api),
		window.WithVSync(cfg.VSync),
		window.WithLogger(log.Named("window")),
	)
	if err != nil {
		stop()
		return errors.Join(err, g.Wait())
	}

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithBackend(backend),
		engine.WithPresentMode(presentMode),
		engine.WithTheme(background),
		engine.WithDiagnosticSink(shader.NewLogSink(log.Named("shader"))),
		engine.WithLogger(log),
		engine.WithMetrics(collectors),
		engine.WithProfiling(cfg.Profiling),
	)
	if err := eng.Init(); err != nil {
		log.Error("backdrop unavailable", zap.Error(err))
		eng.Quit()
		stop()
		return errors.Join(err, g.Wait())
	}

	eng.Run(gctx)
	stop()
	return g.Wait()
}

// serveMetrics runs the /metrics endpoint until ctx is done.
func serveMetrics(g *errgroup.Group, ctx context.Context, addr string, collectors *metrics.Collectors, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collectors.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		log.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
