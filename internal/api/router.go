package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/alito/opencog/internal/api/handlers"
	mw "github.com/alito/opencog/internal/api/middleware"
	"github.com/alito/opencog/internal/buildconfig"
	"github.com/alito/opencog/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// PingFunc checks the backing store; nil means there is nothing to check.
type PingFunc func(ctx context.Context) error

// App holds the router and the pieces main needs for lifecycle management.
type App struct {
	Router       *chi.Mux
	RateLimiter  *mw.RateLimiter
	reasoner     *service.Reasoner
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

type Options struct {
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewApp wires the HTTP surface around a reasoner.
func NewApp(reasoner *service.Reasoner, ping PingFunc, opts Options, logger *zap.Logger) *App {
	atomHandler := handlers.NewAtomHandler(reasoner)
	ruleHandler := handlers.NewRuleHandler(reasoner)

	r := chi.NewRouter()
	app := &App{
		Router:      r,
		RateLimiter: mw.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		reasoner:    reasoner,
		startTime:   time.Now(),
	}
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Order matters: the request id must exist before anything logs.
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiter.Middleware)

	r.Get("/health", healthHandler(ping))
	r.Get("/metrics", app.metricsHandler())
	r.Handle("/metrics/prometheus", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/atoms", func(r chi.Router) {
			r.Post("/", atomHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", atomHandler.GetByID)
				r.Put("/truthvalue", atomHandler.SetTruthValue)
			})
		})
		r.Post("/simplify", atomHandler.Simplify)

		r.Route("/rules", func(r chi.Router) {
			r.Get("/", ruleHandler.List)
			r.Post("/{name}/apply", ruleHandler.Apply)
		})
	})

	return app
}

func healthHandler(ping PingFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
				return
			}
		}

		resp := map[string]string{"status": "ok"}
		for k, v := range buildconfig.VersionInfo() {
			resp[k] = v
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)
		atoms, err := app.reasoner.Space().Count(r.Context())
		if err != nil {
			atoms = -1
		}

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"atom_count":     atoms,
			"rule_count":     len(app.reasoner.Rules()),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": float64(memStats.Alloc) / 1024 / 1024,
				"sys_mb":   float64(memStats.Sys) / 1024 / 1024,
				"num_gc":   memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}
