package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dianabot/dianabot/dianabot"
	"github.com/dianabot/dianabot/dianabot/database"
	"github.com/dianabot/dianabot/dianabot/handlers"
	"github.com/dianabot/dianabot/dianabot/logger"
	"github.com/dianabot/dianabot/dianabot/migration"
	"github.com/dianabot/dianabot/dianabot/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting DianaBot",
		slog.String("version", version),
		slog.String("commit", commit))

	path := flag.String("config", "config.toml", "path to config")
	importLegacy := flag.Bool("import-legacy", false, "import users from the legacy MongoDB deployment and exit")
	flag.Parse()

	cfg, err := dianabot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	dbConfig := database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	}

	db, err := database.New(ctx, dbConfig)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	slog.Info("Initializing database schema...")
	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	slog.Info("Database schema initialized successfully")

	defer db.Close()

	if *importLegacy {
		runLegacyImport(ctx, cfg, db)
		return
	}

	b := dianabot.New(*cfg, version, commit)
	b.DB = db

	if cfg.Spaces.Key != "" {
		b.Storage = services.NewContentStorageService(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.ContentRoot,
		)
	}

	if err := b.SetupGateway(); err != nil {
		slog.Error("Failed to set up Telegram gateway", slog.Any("error", err))
		os.Exit(-1)
	}

	router := handlers.NewRouter(b)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b.StartScheduler(runCtx)

	go b.Gateway.Poll(runCtx, router.Handle)

	slog.Info("DianaBot is now running. Press CTRL-C to exit.")
	<-runCtx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	b.Shutdown(shutdownCtx)
}

// runLegacyImport copies users, balances and VIP lifetimes out of the old
// MongoDB bot, then exits.
func runLegacyImport(ctx context.Context, cfg *dianabot.Config, db *database.DB) {
	if cfg.Mongo.URI == "" {
		slog.Error("Legacy import requested but [mongo] is not configured")
		os.Exit(-1)
	}

	importer, err := migration.NewLegacyImporter(ctx, cfg.Mongo.URI, cfg.Mongo.Database, db.BunDB())
	if err != nil {
		slog.Error("Failed to connect to legacy MongoDB", slog.Any("error", err))
		os.Exit(-1)
	}
	defer importer.Close(ctx)

	stats, err := importer.ImportUsers(ctx, time.Now())
	if err != nil {
		slog.Error("Legacy import failed", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Legacy import complete",
		slog.Int("users", stats.Users),
		slog.Int("balances", stats.Balances),
		slog.Int("vips", stats.VIPs),
		slog.Int("skipped", stats.Skipped))
}
