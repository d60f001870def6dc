package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rdlittle/contractor/internal/config"
	"github.com/rdlittle/contractor/internal/domain/activity"
	"github.com/rdlittle/contractor/internal/domain/client"
	"github.com/rdlittle/contractor/internal/domain/invoice"
	"github.com/rdlittle/contractor/internal/domain/report"
	"github.com/rdlittle/contractor/internal/domain/sequence"
	"github.com/rdlittle/contractor/internal/mcp"
	"github.com/rdlittle/contractor/internal/render"
	"github.com/rdlittle/contractor/internal/transport"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	ctx := context.Background()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer store.close()

	activitySvc := activity.NewService(store.activity, logger)
	sequenceSvc := sequence.NewService(store.counters, logger)
	clientSvc := client.NewService(store.clients, store.companies, store.rates, sequenceSvc, logger)
	invoiceSvc := invoice.NewService(store.invoices, sequenceSvc, clientSvc, activitySvc, logger,
		invoice.WithRetryPolicy(invoice.RetryPolicy{
			MaxAttempts:     cfg.Retry.MaxAttempts,
			InitialInterval: cfg.Retry.InitialInterval,
		}),
		invoice.WithPageSize(cfg.Invoice.PageSize),
	)
	reportSvc := report.NewService(store.reports, clientSvc, logger)

	if err := sequenceSvc.Provision(ctx, 1, sequence.Names...); err != nil {
		logger.Error("failed to provision counters", "error", err)
		os.Exit(1)
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Invoices: invoiceSvc,
			Reports:  reportSvc,
			Counters: sequenceSvc,
			Clients:  clientSvc,
		},
		Version: version,
		Logger:  logger,
	})

	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, mcpServer)
		return
	}

	renderer := render.NewRenderer(invoiceSvc, clientSvc,
		render.NewWkhtmltopdf(cfg.PDF.Command, render.PageOptions{Size: cfg.PDF.PageSize, Margin: cfg.PDF.Margin}),
		logger,
		render.WithCompanyID(cfg.Company.ID),
	)
	runHTTPMode(logger, cfg, mcpServer, renderer, store.ping)
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, cfg config.Config, mcpServer *sdkmcp.Server, views transport.Views, health func(context.Context) error) {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := transport.NewServer(transport.Config{
		Views:  views,
		MCP:    mcpHandler,
		Health: health,
		Token:  cfg.Server.Token,
		Logger: logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "auth", cfg.Server.Token != "")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
