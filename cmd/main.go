package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"chlsync/internal/caching"
	"chlsync/internal/config"
	"chlsync/internal/delivery"
	"chlsync/internal/handlers"
	"chlsync/internal/jobs/background"
	"chlsync/internal/mapper"
	"chlsync/internal/repositories"
	"chlsync/internal/services"
	"chlsync/internal/vtex"
	"chlsync/pkg/database"
)

func main() {
	configFile := os.Getenv("CHLSYNC_CONFIG")
	if configFile == "" {
		configFile = "chlsync.toml"
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pool, err := database.NewPool(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create repositories
	orderRepo := repositories.NewOrderRepo(pool)
	itemRepo := repositories.NewOrderItemRepo(pool)

	// Create collaborators
	fetcher := vtex.NewClient(cfg.VTEX)
	agent := delivery.NewAgent(cfg.SFTP)

	var archiveSvc services.ArchiveService
	if cfg.Archive.Enabled {
		archiveSvc, err = services.NewArchiveService(cfg.Archive)
		if err != nil {
			log.Fatalf("Failed to initialize archive service: %v", err)
		}
		if err := archiveSvc.EnsureBucketExists(context.Background()); err != nil {
			log.Fatalf("Failed to ensure archive bucket: %v", err)
		}
	}

	var runLock caching.RunLock = caching.NopRunLock{}
	if cfg.RunLock.Enabled {
		runLock = caching.NewRedisRunLock(cfg.RunLock)
	}

	syncSvc := services.NewSyncService(fetcher, mapper.VTEXProfile(),
		orderRepo, itemRepo, agent, archiveSvc, runLock, cfg.RunLock.Lease())

	if cfg.Scheduler.Enabled {
		runDaemon(cfg, pool, syncSvc)
		return
	}

	// One-shot mode: run the sync once, exit non-zero on the first error.
	if err := syncSvc.Run(context.Background()); err != nil {
		if errors.Is(err, services.ErrRunInProgress) {
			log.Printf("Another sync run is active, nothing to do")
			return
		}
		log.Fatalf("Sync failed: %v", err)
	}
}

// runDaemon keeps the process alive: the gocron scheduler fires the sync
// on the configured interval and echo serves the probe endpoints.
func runDaemon(cfg *config.Config, pool *pgxpool.Pool, syncSvc *services.SyncService) {
	scheduler, err := background.NewJobScheduler(syncSvc, cfg.Scheduler.Interval())
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop scheduler: %v", err)
		}
	}()

	healthHandlers := handlers.NewHealthHandlers(pool, syncSvc)

	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())

	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.POST("/sync", healthHandlers.TriggerSync)

	log.Printf("chlsync daemon starting on port %d (sync every %s)", cfg.Scheduler.Port, cfg.Scheduler.Interval())
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Scheduler.Port)))
}
