package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"receipt-processor/cmd/receiptprocessor/config"
	"receipt-processor/internal/receiptprocessor"
	"receipt-processor/internal/receiptprocessor/data/database"
	"receipt-processor/internal/receiptprocessor/data/dbrepository"
	"receipt-processor/internal/receiptprocessor/data/memstorage"
	"receipt-processor/internal/receiptprocessor/handlers"
	"receipt-processor/internal/receiptprocessor/scoring"
	"receipt-processor/internal/receiptprocessor/service"
	"receipt-processor/pkg/logging"
	"receipt-processor/pkg/pgxstorage"
)

type receiptStorage interface {
	service.ReceiptRepository
	handlers.HealthService
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewZapLogger(logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	rootCtx, cancelCtx := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGABRT,
	)
	defer cancelCtx()

	storage, closeStorage, err := createStorage(rootCtx, cfg, logger)
	if err != nil {
		logger.ErrorCtx(rootCtx, "Failed to create receipt storage", zap.Error(err))
		return
	}
	defer closeStorage()

	receiptsService := service.NewReceipts(storage, scoring.NewEngine(), logger)
	server := receiptprocessor.NewServer(cfg.Server, receiptsService, storage, logger)

	logger.InfoCtx(
		rootCtx,
		"Starting server",
		zap.String("address", cfg.Server.ServerAddress),
		zap.Bool("database", cfg.UseDatabase()),
	)

	if err := run(rootCtx, cfg, server, logger); err != nil {
		logger.ErrorCtx(rootCtx, "Server shutdown with error", zap.Error(err))
	} else {
		logger.InfoCtx(rootCtx, "Server shutdown gracefully")
	}
}

func createStorage(
	ctx context.Context,
	cfg *config.Config,
	logger *logging.ZapLogger,
) (receiptStorage, func(), error) {
	if !cfg.UseDatabase() {
		return memstorage.New(), func() {}, nil
	}

	dbFactory := database.NewPgxDatabaseFactory(cfg.DB, logger)
	storage, err := pgxstorage.New(ctx, dbFactory)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to the database: %w", err)
	}
	transactionManager := pgxstorage.NewTransactionsManager(storage)
	return dbrepository.New(storage, transactionManager, logger), storage.Close, nil
}

func run(rootCtx context.Context, cfg *config.Config, server *receiptprocessor.Server, logger *logging.ZapLogger) error {
	g, ctx := errgroup.WithContext(rootCtx)

	finished := make(chan struct{})
	defer close(finished)

	context.AfterFunc(ctx, func() {
		timer := time.NewTimer(cfg.ShutdownTimeout)
		defer timer.Stop()

		select {
		case <-finished:
		case <-timer.C:
			log.Fatal("failed to gracefully shutdown the server")
		}
	})

	g.Go(func() error {
		if err := server.Run(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		defer logger.InfoCtx(ctx, "Shutting down server")
		<-ctx.Done()
		if err := server.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("goroutine error occured: %w", err)
	}

	return nil
}
