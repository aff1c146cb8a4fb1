package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mr1hm/go-disaster-reports/internal/api"
	"github.com/mr1hm/go-disaster-reports/internal/config"
	"github.com/mr1hm/go-disaster-reports/internal/ingestion"
	"github.com/mr1hm/go-disaster-reports/internal/logging"
	"github.com/mr1hm/go-disaster-reports/internal/repository"
	"github.com/mr1hm/go-disaster-reports/internal/store"
	"github.com/mr1hm/go-disaster-reports/internal/stream"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"central", cfg.Store.Central.String(),
		"max_reports", cfg.Store.MaxReports,
	)

	st, err := store.New(cfg.Store.Central, cfg.Store.MaxReports)
	if err != nil {
		logging.Fatalf("Failed to initialize report store: %v", err)
	}

	db, err := repository.NewSQLiteDB(cfg.Audit.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize audit database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Live feed of admitted reports for SSE clients
	broadcaster := stream.NewBroadcaster()

	mgr := ingestion.NewManager(cfg, st, db, broadcaster)
	mgr.Start(ctx)

	if cfg.Import.File != "" {
		subs, err := ingestion.LoadFile(cfg.Import.File)
		if err != nil {
			logging.Fatalf("Failed to load import file: %v", err)
		}
		if _, err := mgr.Import(subs); err != nil {
			slog.Warn("import file only partially queued", "file", cfg.Import.File, "error", err)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.API.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.API.RateLimitRPS))

	handler := api.NewHandler(st, mgr, db, broadcaster, cfg.API.QueryCacheTTL)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(broadcaster.Close) // ends open SSE streams

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// no handler can reach the manager past this point
	mgr.Stop()
	cancel()

	delivered, dropped := broadcaster.Stats()
	slog.Info("shutdown complete", "reports", st.Count(), "stream_delivered", delivered, "stream_dropped", dropped)
}
