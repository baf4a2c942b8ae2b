// Package ui serves the live VOT dashboard.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/qil-lattice/votboard/internal/dashboard"
	boardFeature "github.com/qil-lattice/votboard/internal/ui/features/board"
	"github.com/qil-lattice/votboard/internal/ui/notifier"
	"github.com/qil-lattice/votboard/internal/ui/resources"
	"github.com/qil-lattice/votboard/internal/ui/router"
)

// Server is the dashboard HTTP server.
type Server struct {
	store     *dashboard.Store
	loader    *dashboard.Loader
	port      int
	dev       bool
	staticDir string
	logger    *slog.Logger
	notifier  *notifier.Notifier
	reload    *notifier.Notifier
	views     *boardFeature.Views
}

// Config holds configuration for the UI server.
type Config struct {
	Store *dashboard.Store
	// Loader, when set, is run for the lifetime of the server.
	Loader *dashboard.Loader
	Port   int
	Dev    bool
	Logger *slog.Logger
	// StaticDir is watched in dev mode. Defaults to resources.Dir().
	StaticDir string
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = resources.Dir()
	}
	return &Server{
		store:     cfg.Store,
		loader:    cfg.Loader,
		port:      cfg.Port,
		dev:       cfg.Dev,
		staticDir: staticDir,
		logger:    logger,
		notifier:  notifier.New(),
		reload:    notifier.New(),
		views:     boardFeature.NewViews(),
	}
}

// Handler builds the routed handler with its middleware.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, router.Deps{
		Store:    s.store,
		Notifier: s.notifier,
		Views:    s.views,
		Logger:   s.logger,
		IsDev:    s.dev,
		Reload:   s.reload,
	}); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the server and blocks until ctx is cancelled or a component fails.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	handler, err := s.Handler()
	if err != nil {
		_ = ln.Close()
		return err
	}

	unsubscribe := s.store.Subscribe(s.notifier.Broadcast)
	defer unsubscribe()

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", listenerPort(ln)), "dev", s.dev)

	if s.loader != nil {
		eg.Go(func() error {
			return s.loader.Run(egctx)
		})
	}

	if s.dev && s.staticDir != "" {
		eg.Go(func() error {
			return s.watchStatic(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchStatic reloads connected browsers when a static asset changes.
func (s *Server) watchStatic(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.staticDir); err != nil {
		s.logger.Error("failed to watch static directory", "path", s.staticDir, "error", err)
		<-ctx.Done()
		return nil
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("static asset changed, reloading browsers", "file", event.Name)
				s.reload.Broadcast()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func listenerPort(ln net.Listener) int {
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}
