package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/rummage/shopkeeper/internal/config"
	"github.com/rummage/shopkeeper/internal/handlers"
	"github.com/rummage/shopkeeper/internal/logger"
	appMiddleware "github.com/rummage/shopkeeper/internal/middleware"
	"github.com/rummage/shopkeeper/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks, err := buildSinks(ctx, cfg.Sync, zapLog)
	if err != nil {
		zapLog.Fatal("Failed to initialize sync sinks", zap.Error(err))
	}
	defer sinks.Close()

	// Initialize services
	inventoryService := services.NewInventoryService(sinks.SyncSink(), zapLog,
		services.WithSyncTimeout(cfg.Sync.Timeout))
	promoService := services.NewPromoService()
	loyaltyService := services.NewLoyaltyService(cfg.Loyalty.CardVisits)

	// Initialize handlers
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, cfg.MaxUploadSizeMB)
	promoHandler := handlers.NewPromoHandler(promoService)
	loyaltyHandler := handlers.NewLoyaltyHandler(loyaltyService)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(appMiddleware.RequestLogger(zapLog))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		inventoryHandler.RegisterRoutes(r)
		promoHandler.RegisterRoutes(r)
		loyaltyHandler.RegisterRoutes(r)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	zapLog.Info("Shopkeeper API server starting",
		zap.String("address", cfg.ServerAddress),
		zap.String("environment", cfg.Environment),
		zap.String("sync", sinks.SyncSink().Name()),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zapLog.Fatal("Server failed to start", zap.Error(err))
	}
	zapLog.Info("Server stopped")
}
