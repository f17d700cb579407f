package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drawAuditor/api"
	"drawAuditor/audit"
	"drawAuditor/config"
	"drawAuditor/db"
	"drawAuditor/logger"
	"drawAuditor/source"
	"drawAuditor/ws"
)

func main() {
	dotenv := config.LoadDotEnv()

	cfg, err := config.FromEnv()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if dotenv {
		log.Info("✅ Loaded environment variables from .env")
	} else {
		log.Warn("⚠️  .env file not found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	upstream, err := source.NewHTTPSource(source.HTTPConfig{BaseURL: cfg.APIURL, Timeout: cfg.HTTPTimeout})
	if err != nil {
		log.Fatalf("❌ Invalid upstream URL: %v", err)
	}

	checks := map[string]api.HealthChecker{}

	// Draw cache: Redis when configured, in-process otherwise
	var cache source.Cache = source.NewMemoryCache()
	if cfg.RedisURL != "" {
		redisCache, err := db.NewRedisCache(ctx, cfg, log)
		if err != nil {
			log.Warnf("⚠️  Redis initialization failed: %v", err)
			log.Warn("   Falling back to in-process draw cache")
		} else {
			defer redisCache.Close()
			cache = redisCache
			checks["redis"] = redisCache
		}
	}

	// Report storage is optional
	var store audit.ReportSaver
	var reports api.ReportReader
	if cfg.DatabaseURL != "" {
		reportStore, err := db.NewReportStore(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Warnf("⚠️  PostgreSQL initialization failed: %v", err)
			log.Warn("   Reports will not be stored")
		} else {
			defer reportStore.Close()
			store = reportStore
			reports = reportStore
			checks["postgres"] = reportStore
		}
	}

	auditor := audit.New(source.NewCached(upstream, cache, log), store, log)

	handler := api.NewRouter(api.Routes{
		Handlers: api.NewHandlers(auditor, reports, checks, log),
		Stream:   ws.NewVerifyStream(auditor, log),
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Infof("🚀 Server starting on %s", cfg.ListenAddr)
	log.Infof("   Upstream: %s", cfg.APIURL)
	log.Info("🔌 API Endpoints:")
	log.Info("   GET  /api/verify/:gameId - Verify a game's draws")
	log.Info("   GET  /api/reports - Recent stored reports")
	log.Info("   GET  /api/reports/:gameId - Latest stored report for a game")
	log.Info("   GET  /api/health - Health check (Redis + PostgreSQL)")
	log.Info("📡 WebSocket Endpoints:")
	log.Info("   /ws/verify?gameId=... - Stream a verification draw by draw")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("❌ Server error: %v", err)
	}
	log.Info("👋 Server stopped")
}
