package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KotFed0t/holdings_keeper/config"
	"github.com/KotFed0t/holdings_keeper/data"
	"github.com/KotFed0t/holdings_keeper/internal/reportGenerator/xlsxGenerator"
	"github.com/KotFed0t/holdings_keeper/internal/scheduler"
	"github.com/KotFed0t/holdings_keeper/internal/service/holdingsService"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	db, err := data.NewSqliteClient(cfg)
	if err != nil {
		slog.Error("sqlite client init failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	uowFactory := data.NewUnitOfWorkFactory(cfg, db)

	reportGenerator := xlsxGenerator.New()

	holdingsSrv := holdingsService.New(cfg, uowFactory, reportGenerator)

	sched := scheduler.New()
	sched.NewCrontabJob("portfolio balance snapshot", holdingsSrv.SnapshotAllBalances, cfg.Jobs.BalanceSnapshotCrontab, false)
	sched.Start()
	defer sched.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
