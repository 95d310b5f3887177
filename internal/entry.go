// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/syndic/internal/api"
	"github.com/starford/syndic/internal/appstate"
	"github.com/starford/syndic/internal/dashboard"
	"github.com/starford/syndic/internal/filestore"
	"github.com/starford/syndic/internal/mcpserver"
	"github.com/starford/syndic/internal/service"
	"github.com/starford/syndic/internal/sse"
	"github.com/starford/syndic/internal/store"
)

// runtime holds the components shared by every entry point.
type runtime struct {
	cfg    *Config
	logger *slog.Logger
	db     *store.DB
	files  *filestore.FS
	dash   *dashboard.Service
	docs   *service.Documents
}

func (rt *runtime) Close() error {
	return rt.db.Close()
}

// setup applies opts, installs the JSON logger, opens and initializes the
// store and prepares the document root.
func setup(ctx context.Context, opts ...Option) (*runtime, error) {
	app := &application{logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.Bool("local_only", cfg.App.HTTP.LocalOnly),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("files_path", cfg.Files.Path),
		slog.Bool("seed", cfg.Seed.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	files, err := filestore.New(cfg.Files.Path)
	if err != nil {
		return nil, fmt.Errorf("init file store: %w", err)
	}

	db, err := store.Open(cfg.SQLite.Path,
		store.WithLogger(logger),
		store.WithSeed(cfg.Seed.Enabled))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.Initialize(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize store: %w", err)
	}

	return &runtime{
		cfg:    cfg,
		logger: logger,
		db:     db,
		files:  files,
		dash:   dashboard.NewService(db.Meetings(), db.Notes(), db.Settings(), db.TimeEntries(), db.Now),
		docs:   service.NewDocuments(files, db.Documents(), logger),
	}, nil
}

// Run starts the HTTP server and the document watcher and blocks until a
// shutdown signal arrives or ctx is cancelled.
func Run(ctx context.Context, opts ...Option) error {
	rt, err := setup(ctx, opts...)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg, logger := rt.cfg, rt.logger

	state, err := appstate.New(ctx, rt.db.Settings())
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	handler := api.NewHandler(rt.db, state, rt.dash, rt.docs)
	apiRouter := api.NewRouter(handler, cfg.App.HTTP.LocalOnly, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := rt.db.SchemaVersion(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// SSE endpoint.
	r.With(api.LocalOnly(cfg.App.HTTP.LocalOnly)).Get("/api/events", broker.ServeHTTP)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Event streams never end on their own.
	httpServer.RegisterOnShutdown(broker.Close)

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Files.Watch {
		g.Go(func() error {
			err := rt.files.Watch(gCtx, logger, func(kind filestore.EventKind, uri string) {
				rt.docs.FileEvent(gCtx, kind, uri)
				broker.Publish(sse.Event{
					Type: "documents.file_" + string(kind),
					Data: map[string]string{"uri": uri},
				})
			})
			if err != nil {
				logger.Warn("document watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group once the server has been shut down, so the
// watcher stops too.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools over stdio. Logs go to stderr since stdout
// carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	rt, err := setup(ctx, append(opts, WithLogOutput(os.Stderr))...)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.logger.Info("MCP server starting on stdio")
	return mcpserver.New(rt.db, rt.dash, rt.docs).ServeStdio()
}

// Init creates or upgrades the database, seeding it when enabled, and exits.
func Init(ctx context.Context, opts ...Option) error {
	rt, err := setup(ctx, opts...)
	if err != nil {
		return err
	}
	defer rt.Close()

	v, err := rt.db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	rt.logger.Info("Database ready", slog.Int("schema_version", v))
	return nil
}

// Reset deletes every meeting, note and time entry. Settings, contacts,
// tasks, finances and documents are kept.
func Reset(ctx context.Context, opts ...Option) error {
	rt, err := setup(ctx, opts...)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.db.Settings().ResetAll(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	rt.logger.Info("Meetings, notes and time entries deleted")
	return nil
}
