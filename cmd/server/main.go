package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"project-management-api/internal/config"
	"project-management-api/internal/database"
	"project-management-api/internal/graph"
	"project-management-api/internal/handlers"
	"project-management-api/internal/logger"
	"project-management-api/internal/observability"
	"project-management-api/internal/realtime"
	"project-management-api/internal/routes"
	"project-management-api/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	// Logger
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tracing
	shutdownTracing, err := observability.InitTracing(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to init tracing", "error", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("Tracer shutdown failed", "error", err)
		}
	}()

	// Init database
	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to open database", "driver", cfg.DBDriver, "error", err)
	}

	svcs := services.New(db, log)
	hub := realtime.NewHub()
	h := handlers.New(svcs, hub, log)

	schema, err := graph.NewSchema(graph.NewResolver(svcs, hub, log))
	if err != nil {
		log.Fatal("Failed to build GraphQL schema", "error", err)
	}
	gql := graph.NewHandler(schema, cfg.GraphiQLEnabled, log)

	// Setup the routes
	ginRoutes := routes.SetupRoutes(h, gql, cfg, log)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           ginRoutes,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", srv.Addr, "db_driver", cfg.DBDriver, "graphiql", cfg.GraphiQLEnabled)
		log.Info("API endpoints: /organizations/ /projects/ /tasks/ /taskcomments/ /graphql/ /ws/:topic /health")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
