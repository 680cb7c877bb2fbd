package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vbonduro/inmuebles/internal/config"
	"github.com/vbonduro/inmuebles/internal/docstore"
	mongostore "github.com/vbonduro/inmuebles/internal/docstore/mongo"
	sqlitestore "github.com/vbonduro/inmuebles/internal/docstore/sqlite"
	"github.com/vbonduro/inmuebles/internal/logging"
	"github.com/vbonduro/inmuebles/internal/service"
	"github.com/vbonduro/inmuebles/internal/uploadstore/local"
	"github.com/vbonduro/inmuebles/internal/web"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The API keeps serving without a store; data routes then answer
	// "Database not configured".
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("document store unavailable", "error", err)
	}
	if store != nil {
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.Close(closeCtx); err != nil {
				logger.Error("failed to close document store", "error", err)
			}
		}()
	}

	uploads, err := local.NewLocalUploadStore(cfg.UploadDir)
	if err != nil {
		logger.Error("failed to initialize upload store", "error", err)
		return err
	}

	server := web.NewServer(web.Options{
		Properties:  service.NewPropertyService(store, logger),
		Inquiries:   service.NewInquiryService(store, logger),
		Stats:       service.NewStatsService(store),
		Uploads:     uploads,
		Diagnostics: store,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})
	if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}

// openStore connects to the document store named by DATABASE_URL. It returns
// a nil store and no error when no URL is configured.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (docstore.Store, error) {
	backend, err := docstore.BackendFor(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	switch backend {
	case docstore.BackendMongo:
		s, err := mongostore.Open(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			return nil, err
		}
		logger.Info("using MongoDB document store", "database", cfg.DatabaseName)
		return s, nil
	case docstore.BackendSQLite:
		path := docstore.SQLitePath(cfg.DatabaseURL)
		s, err := sqlitestore.Open(path)
		if err != nil {
			return nil, err
		}
		logger.Info("using SQLite document store", "path", path)
		return s, nil
	default:
		logger.Warn("DATABASE_URL not set; running without a document store")
		return nil, nil
	}
}
