package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/de-tools/report-atlas/pkg/expression"
	"github.com/de-tools/report-atlas/pkg/handlers/drafts"
	"github.com/de-tools/report-atlas/pkg/handlers/executions"
	"github.com/de-tools/report-atlas/pkg/handlers/expressions"
	"github.com/de-tools/report-atlas/pkg/handlers/relationships"
	reportatlasmiddleware "github.com/de-tools/report-atlas/pkg/server/middleware"
	"github.com/de-tools/report-atlas/pkg/services/builder"
	"github.com/de-tools/report-atlas/pkg/services/execution"
	history "github.com/de-tools/report-atlas/pkg/store/duckdb/execution"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router     *chi.Mux
	logger     *zerolog.Logger
	server     *http.Server
	controller execution.Controller
	timeout    time.Duration
}

type Dependencies struct {
	Engine     *expression.Engine
	Builder    builder.Builder
	Controller execution.Controller
	History    history.Store
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	exprHandler := expressions.NewHandler(config.Dependencies.Engine)
	relHandler := relationships.NewHandler()

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(reportatlasmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/patterns", exprHandler.ListPatterns)
		r.Post("/expressions/render", exprHandler.Render)
		r.Get("/catalog", exprHandler.Catalog)
		r.Post("/relationships/suggest", relHandler.Suggest)

		if config.Dependencies.Builder != nil {
			h := drafts.NewHandler(config.Dependencies.Builder)
			r.Route("/drafts", func(r chi.Router) {
				r.Post("/", h.Create)
				r.Get("/", h.List)
				r.Get("/{id}", h.Get)
				r.Delete("/{id}", h.Delete)
				r.Put("/{id}/settings", h.UpdateSettings)
				r.Get("/{id}/fields", h.Fields)
				r.Post("/{id}/wizard", h.ApplyWizard)
				r.Put("/{id}/calculated-fields", h.SaveField)
				r.Delete("/{id}/calculated-fields/{fieldID}", h.RemoveField)
				r.Post("/{id}/publish", h.Publish)
			})
		}

		if config.Dependencies.Controller != nil {
			h := executions.NewHandler(config.Dependencies.Controller, config.Dependencies.History)
			r.Post("/reports/{id}/execute", h.Execute)
			r.Get("/executions", h.History)
			r.Get("/executions/{id}", h.Status)
			r.Delete("/executions/{id}", h.Cancel)
		}
	})

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router:     router,
		logger:     &logger,
		controller: config.Dependencies.Controller,
		timeout:    timeout,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (w *WebAPI) Handler() http.Handler {
	return w.router
}

// Start serves until the listener fails or SIGINT/SIGTERM arrives, then drains
// outstanding requests and background execution watches.
func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")
		return w.Shutdown()
	}
}

func (w *WebAPI) Shutdown() error {
	// Give outstanding requests a deadline for completion.
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	err := w.server.Shutdown(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("graceful shutdown failed")
		err = w.server.Close()
	}

	if w.controller != nil {
		w.controller.Shutdown()
	}
	return err
}
