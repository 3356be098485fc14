package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/orsaadi/FileSenderBackhend/internal/api"
	"github.com/orsaadi/FileSenderBackhend/internal/audit"
	"github.com/orsaadi/FileSenderBackhend/internal/codegen"
	"github.com/orsaadi/FileSenderBackhend/internal/config"
	"github.com/orsaadi/FileSenderBackhend/internal/logging"
	"github.com/orsaadi/FileSenderBackhend/internal/session"
	"github.com/orsaadi/FileSenderBackhend/internal/storage"
	"github.com/orsaadi/FileSenderBackhend/internal/transfer"
	"github.com/orsaadi/FileSenderBackhend/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const defaultConfigPath = "filerelay.yaml"

// app is the wired relay server
type app struct {
	e      *echo.Echo
	relay  *transfer.Manager
	ledger audit.Recorder
}

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	configPath := flag.String("config", envOr("CONFIG_PATH", defaultConfigPath), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("[Server] %v", err)
	}
	defer a.ledger.Close()

	// The registry starts empty, so every stored blob is a leftover.
	if _, err := a.relay.SweepOrphans(ctx, 0); err != nil {
		logger.Warnf("[Sweeper] startup sweep failed: %v", err)
	}

	go a.relay.RunSweeper(ctx,
		time.Duration(cfg.Relay.OrphanSweepIntervalMinutes)*time.Minute,
		time.Duration(cfg.Relay.OrphanGraceMinutes)*time.Minute)

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	printBanner(*configPath, cfg)

	go func() {
		if err := a.e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("[Server] %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("[Server] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := a.e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("[Server] shutdown: %v", err)
	}
}

// newApp builds the store, ledger and relay manager and mounts them on a new
// Echo instance.
func newApp(ctx context.Context, cfg *config.AppConfig, logger *log.Logger) (*app, error) {
	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ledger, err := openLedger(cfg.Audit, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open transfer ledger: %w", err)
	}

	relay := transfer.NewManager(session.NewRegistry(), store, codegen.New(), ledger, logger, transfer.Options{
		PreserveOriginalName:     cfg.Relay.PreserveOriginalName,
		DeletePreviousOnReupload: cfg.Relay.DeletePreviousOnReupload,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger = logger

	api.SetupMiddleware(e, api.MiddlewareConfig{
		BodyLimit:      cfg.Server.BodyLimit,
		RequestLogging: cfg.Server.EnableRequestLogging,
	})
	api.RegisterRoutes(e, api.NewHandler(relay, Version))

	if err := web.RegisterStaticRoutes(e, cfg.Server.StaticDirectory); err != nil {
		logger.Warnf("[Server] failed to register static routes: %v", err)
	}

	return &app{e: e, relay: relay, ledger: ledger}, nil
}

func openStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case config.BackendMinio:
		return storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			Prefix:    cfg.Minio.Prefix,
			UseSSL:    cfg.Minio.UseSSL,
		})
	default:
		return storage.NewLocalStore(cfg.UploadsDirectory)
	}
}

func openLedger(cfg config.AuditConfig, logger *log.Logger) (audit.Recorder, error) {
	if !cfg.Enabled {
		logger.Info("[Audit] transfer ledger disabled")
		return audit.Nop{}, nil
	}
	return audit.OpenDuckLedger(cfg.DatabasePath)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printBanner(configPath string, cfg *config.AppConfig) {
	location := cfg.Storage.UploadsDirectory
	if cfg.Storage.Backend == config.BackendMinio {
		location = cfg.Storage.Minio.Endpoint + "/" + cfg.Storage.Minio.Bucket
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           File Relay Server                               ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Storage:   %-46s║\n", cfg.Storage.Backend+" "+location)
	fmt.Printf("║  Ledger:    %-46v║\n", cfg.Audit.Enabled)
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")
}
