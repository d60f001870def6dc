package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rdlittle/contractor/internal/config"
	"github.com/rdlittle/contractor/internal/domain/activity"
	"github.com/rdlittle/contractor/internal/domain/client"
	"github.com/rdlittle/contractor/internal/domain/invoice"
	"github.com/rdlittle/contractor/internal/domain/report"
	"github.com/rdlittle/contractor/internal/domain/sequence"
	"github.com/rdlittle/contractor/internal/mongo"
	"github.com/rdlittle/contractor/internal/sqlite"
)

// store bundles the repositories of one backend.
type store struct {
	counters  sequence.Repository
	clients   client.Repository
	companies client.CompanyRepository
	rates     client.RateRepository
	invoices  invoice.Repository
	reports   report.Repository
	activity  activity.Repository
	ping      func(context.Context) error
	close     func()
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case "mongo":
		return openMongo(ctx, cfg.Mongo, logger)
	default:
		return openSQLite(cfg.DB, logger)
	}
}

func openSQLite(cfg config.DBConfig, logger *slog.Logger) (*store, error) {
	if err := ensureDBDir(cfg.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.Path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("using sqlite store", "path", cfg.Path)

	return &store{
		counters:  sqlite.NewCounterRepository(db),
		clients:   sqlite.NewClientRepository(db),
		companies: sqlite.NewCompanyRepository(db),
		rates:     sqlite.NewRateRepository(db),
		invoices:  sqlite.NewInvoiceRepository(db),
		reports:   sqlite.NewReportRepository(db),
		activity:  sqlite.NewActivityRepository(db),
		ping:      db.PingContext,
		close:     func() { db.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg config.MongoConfig, logger *slog.Logger) (*store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	s, err := mongo.Connect(ctx, cfg.URI, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close(context.Background())
		return nil, err
	}
	logger.Info("using mongo store", "database", cfg.Database)

	return &store{
		counters:  s.Counters(),
		clients:   s.Clients(),
		companies: s.Companies(),
		rates:     s.Rates(),
		invoices:  s.Invoices(),
		reports:   s.Reports(),
		activity:  s.Activity(),
		ping:      s.Ping,
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.Close(ctx)
		},
	}, nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
