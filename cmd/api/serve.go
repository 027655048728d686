package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xxz807/finbank/internal/ledger/api"
	"github.com/xxz807/finbank/internal/ledger/service"
	"github.com/xxz807/finbank/internal/platform/config"
	"github.com/xxz807/finbank/internal/platform/logger"
	"github.com/xxz807/finbank/internal/platform/server"
)

func newServeCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	// 1. 基础设施
	appLogger, err := logger.NewLogger(cfg.Server.Mode)
	if err != nil {
		return err
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to open store", zap.Error(err))
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			appLogger.Warn("Closing store failed", zap.Error(err))
		}
	}()

	// 2. 依赖注入
	ledgerSvc := service.NewLedgerService(store, cfg.Ledger, appLogger)
	querySvc := service.NewQueryService(store, cfg.Ledger, appLogger)
	ledgerHandler := api.NewLedgerHandler(ledgerSvc, querySvc)
	srv := server.NewServer(appLogger, cfg.Server, ledgerHandler)

	// 3. 启动服务, 收到信号后优雅停机
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		appLogger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server stopped with error", zap.Error(err))
		return err
	}
	return nil
}
