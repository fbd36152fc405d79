package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/oficina/internal/config"
	"github.com/Simplici0/oficina/internal/db"
	"github.com/Simplici0/oficina/internal/events"
	"github.com/Simplici0/oficina/internal/logging"
	"github.com/Simplici0/oficina/internal/migrations"
	"github.com/Simplici0/oficina/internal/seed"
	"github.com/Simplici0/oficina/internal/service"
	"github.com/Simplici0/oficina/internal/store"
)

type server struct {
	costs   *service.CostService
	budgets *service.BudgetService
	bus     *events.Bus
	logger  *slog.Logger
}

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	if err := migrations.Up(database); err != nil {
		logger.Error("failed to run database migrations", "error", err)
		return
	}

	if cfg.Seed {
		stats, err := seed.Run(database, seed.Config{WorkingDays: cfg.WorkingDays})
		if err != nil {
			logger.Error("failed to seed database", "error", err)
			return
		}
		logger.Info("seed finished", "inserts", stats.Inserts)
	}

	bus := events.NewBus()
	costs := service.NewCostService(
		store.NewFixedCostStore(database),
		store.NewCollaboratorStore(database),
		store.NewSettingsStore(database, cfg.WorkingDays),
		bus,
		logger,
	)
	budgets := service.NewBudgetService(store.NewProjectStore(database), costs, bus, logger)

	srv := &server{costs: costs, budgets: budgets, bus: bus, logger: logger}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.listenAndServe(ctx, ":"+cfg.Port); err != nil {
		logger.Error("server error", "error", err)
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler { return requestLogger(s.logger, next) })
	r.Use(securityHeaders)

	r.Get("/health", s.handleHealth)
	r.Get("/events", s.handleEvents)

	r.Route("/costs", func(r chi.Router) {
		r.Get("/summary", s.handleCostSummary)
		r.Put("/working-days", s.handleSetWorkingDays)

		r.Get("/fixed", s.handleListFixedCosts)
		r.Post("/fixed", s.handleCreateFixedCost)
		r.Put("/fixed/{id}", s.handleUpdateFixedCost)
		r.Delete("/fixed/{id}", s.handleDeleteFixedCost)

		r.Get("/collaborators", s.handleListCollaborators)
		r.Post("/collaborators", s.handleCreateCollaborator)
		r.Patch("/collaborators/{id}", s.handleUpdateCollaborator)
		r.Delete("/collaborators/{id}", s.handleDeleteCollaborator)
	})

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", s.handleListProjects)
		r.Post("/", s.handleCreateProject)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetProject)
			r.Put("/", s.handleUpdateProject)
			r.Delete("/", s.handleDeleteProject)
			r.Get("/quote", s.handleQuote)
			r.Get("/quote.txt", s.handleQuoteText)

			r.Post("/materials", s.handleAddMaterial)
			r.Put("/materials/{lineID}", s.handleUpdateMaterial)
			r.Delete("/materials/{lineID}", s.handleRemoveMaterial)

			r.Post("/labor", s.handleAddLabor)
			r.Put("/labor/{lineID}", s.handleUpdateLabor)
			r.Delete("/labor/{lineID}", s.handleRemoveLabor)
			r.Post("/labor/{lineID}/hours", s.handleAdjustLaborHours)
		})
	})

	return r
}

func (s *server) listenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.serve(ctx, ln)
}

// serve handles requests on ln until ctx is cancelled, then shuts down
// gracefully. Request contexts are cancelled as soon as shutdown starts so
// long-lived /events streams do not hold it open.
func (s *server) serve(ctx context.Context, ln net.Listener) error {
	baseCtx, cancelRequests := context.WithCancel(context.Background())
	defer cancelRequests()

	httpServer := &http.Server{
		Handler:     s.routes(),
		ReadTimeout: 60 * time.Second,
		// WriteTimeout stays unset: /events holds its response open.
		IdleTimeout: 120 * time.Second,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}
	httpServer.RegisterOnShutdown(cancelRequests)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
