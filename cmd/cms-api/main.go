package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dimitrije/cms-api/internal/config"
	"github.com/dimitrije/cms-api/internal/database"
	"github.com/dimitrije/cms-api/internal/handlers"
	"github.com/dimitrije/cms-api/internal/logging"
	authmw "github.com/dimitrije/cms-api/internal/middleware"
	"github.com/dimitrije/cms-api/internal/services"
	"github.com/dimitrije/cms-api/internal/sse"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	contentService := services.NewContentService(db)
	collectionService := services.NewCollectionService(db)
	schemaService := services.NewSchemaService(contentService)
	tokenService := services.NewTokenService(
		cfg.Token.ValidateURL, cfg.Token.Timeout, cfg.Token.CacheTTL, cfg.Token.CacheSize,
	)

	hub := sse.NewHub()
	go hub.Run()
	defer hub.Stop()

	contentHandler := handlers.NewContentHandler(contentService, hub, logger)
	collectionHandler := handlers.NewCollectionHandler(collectionService, hub, logger)
	streamHandler := handlers.NewStreamHandler(contentService, hub, logger)
	schemaHandler := handlers.NewSchemaHandler(schemaService, hub, logger)
	healthHandler := handlers.NewHealthHandler(db)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", authmw.RequestIDHeader},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	app.Get("/health", healthHandler.Check)

	protected := app.Group("")
	protected.Use(authmw.Auth(tokenService))

	protected.Get("/contents", contentHandler.List)
	protected.Post("/contents", contentHandler.Create)
	protected.Get("/contents/:name", contentHandler.Get)
	protected.Put("/contents/:name", contentHandler.ReplaceFields)
	protected.Post("/contents/:name", contentHandler.AddField)
	protected.Patch("/contents/:name", contentHandler.Rename)
	protected.Get("/contents/:name/events", contentHandler.Events)
	protected.Get("/contents/:name/ws", streamHandler.Connect)
	protected.Delete("/contents/:name/:fieldname", contentHandler.RemoveField)
	protected.Patch("/contents/:name/:fieldname", contentHandler.RenameField)

	protected.Get("/collections/:id", collectionHandler.List)
	protected.Post("/collections/:id", collectionHandler.Create)
	protected.Put("/collections/:id", collectionHandler.Update)
	protected.Patch("/collections/:id", collectionHandler.Update)
	protected.Delete("/collections/:id", collectionHandler.Delete)

	protected.Post("/imports/openapi", schemaHandler.ImportOpenAPI)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", app)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: authmw.Metrics()(authmw.RequestLogger(logger)(mux)),
	}

	go func() {
		logger.Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
