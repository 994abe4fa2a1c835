package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"larder-service/internal/assistant"
	"larder-service/internal/config"
	assistantAsk "larder-service/internal/http-server/handlers/assistant/ask"
	jobsGet "larder-service/internal/http-server/handlers/jobs/get"
	orderCreate "larder-service/internal/http-server/handlers/orders/create"
	orderDuplicate "larder-service/internal/http-server/handlers/orders/duplicate"
	orderGet "larder-service/internal/http-server/handlers/orders/get"
	orderList "larder-service/internal/http-server/handlers/orders/list"
	orderPriority "larder-service/internal/http-server/handlers/orders/priority"
	orderRemove "larder-service/internal/http-server/handlers/orders/remove"
	orderStatus "larder-service/internal/http-server/handlers/orders/status"
	stateExport "larder-service/internal/http-server/handlers/state/export"
	stateImport "larder-service/internal/http-server/handlers/state/importstate"
	ttAssign "larder-service/internal/http-server/handlers/timetable/assign"
	ttClearDay "larder-service/internal/http-server/handlers/timetable/clearday"
	ttGrid "larder-service/internal/http-server/handlers/timetable/grid"
	ttOverlaps "larder-service/internal/http-server/handlers/timetable/overlaps"
	ttRemove "larder-service/internal/http-server/handlers/timetable/remove"
	ttShifts "larder-service/internal/http-server/handlers/timetable/shifts"
	workerCreate "larder-service/internal/http-server/handlers/workers/create"
	workerGet "larder-service/internal/http-server/handlers/workers/get"
	workerList "larder-service/internal/http-server/handlers/workers/list"
	workerRemove "larder-service/internal/http-server/handlers/workers/remove"
	"larder-service/internal/jobs"
	"larder-service/internal/ledger"
	"larder-service/internal/lock"
	"larder-service/internal/registry"
	svc "larder-service/internal/service"
	"larder-service/internal/storage/file"
	"larder-service/internal/storage/postgres"
	"larder-service/internal/timetable"
	slogpretty "larder-service/pkg/handlers/slogPretty"
	"larder-service/pkg/middleware/mwLogger"
	"larder-service/pkg/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Idempotency-Key")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	var gateway interface {
		svc.Gateway
		Close() error
	}
	var err error

	switch cfg.Storage.Driver {
	case "postgres":
		gateway, err = postgres.New(cfg.Storage.Path, cfg.Storage.ShopID)
	default:
		gateway, err = file.New(cfg.Storage.Path)
	}
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	var locker lock.Locker = lock.Noop{}
	if cfg.RedisAddr != "" {
		locker, err = lock.NewRedisLock(cfg.RedisAddr)
		if err != nil {
			log.Error("Failed to init redis lock", sl.Err(err))
			os.Exit(1)
		}
	}

	grid, err := timetable.New(cfg.Shop.OpenTime, cfg.Shop.CloseTime, time.Duration(cfg.Shop.SlotMinutes)*time.Minute)
	if err != nil {
		log.Error("Failed to build slot grid", sl.Err(err))
		os.Exit(1)
	}

	service, err := svc.NewService(
		registry.New(nil),
		grid,
		ledger.New(cfg.Shop.FlatRatePerKg),
		jobs.Defaults(),
		gateway,
		locker,
	)
	if err != nil {
		log.Error("Failed to init service", sl.Err(err))
		os.Exit(1)
	}

	if err := service.LoadFromGateway(context.Background()); err != nil {
		log.Error("Failed to load persisted state", sl.Err(err))
		os.Exit(1)
	}

	shopAssistant := assistant.New(service)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	// Workers
	router.Post("/workers", workerCreate.New(log, service))
	router.Get("/workers", workerList.New(log, service))
	router.Get("/workers/{id}", workerGet.New(log, service))
	router.Delete("/workers/{id}", workerRemove.New(log, service))

	// Orders
	router.Post("/orders", orderCreate.New(log, service))
	router.Get("/orders", orderList.New(log, service))
	router.Get("/orders/{id}", orderGet.New(log, service))
	router.Put("/orders/{id}/status", orderStatus.New(log, service))
	router.Put("/orders/{id}/priority", orderPriority.New(log, service))
	router.Post("/orders/{id}/duplicate", orderDuplicate.New(log, service))
	router.Delete("/orders/{id}", orderRemove.New(log, service))

	// Timetable
	router.Post("/timetable/assign", ttAssign.New(log, service))
	router.Post("/timetable/remove", ttRemove.New(log, service))
	router.Post("/timetable/clear_day", ttClearDay.New(log, service))
	router.Get("/timetable/{week}", ttGrid.New(log, service))
	router.Get("/timetable/{week}/shifts", ttShifts.New(log, service))
	router.Get("/timetable/{week}/overlaps", ttOverlaps.New(log, service))

	// Shop jobs
	router.Get("/jobs", jobsGet.New(log, service))
	router.Get("/jobs/descriptions", jobsGet.Descriptions(log, service))

	// Assistant
	router.Post("/assistant", assistantAsk.New(log, shopAssistant))

	// State
	router.Get("/state/export", stateExport.New(log, service))
	router.Post("/state/import", stateImport.New(log, service))

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if err := gateway.Close(); err != nil {
		log.Error("Failed to close storage", sl.Err(err))
	} else {
		log.Info("Storage closed")
	}

	if err := locker.Close(); err != nil {
		log.Error("Failed to close locker", sl.Err(err))
	} else {
		log.Info("Locker closed")
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
