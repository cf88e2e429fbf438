package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lumipay/agent-console/internal/config"
	"github.com/lumipay/agent-console/internal/i18n"
	"github.com/lumipay/agent-console/internal/logger"
	"github.com/lumipay/agent-console/internal/stats"
	"github.com/lumipay/agent-console/internal/storage"
	"github.com/lumipay/agent-console/internal/supervisor"
	"github.com/lumipay/agent-console/internal/telegram"
	"github.com/lumipay/agent-console/internal/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dbPath := flag.String("db", "", "path to SQLite database (overrides config)")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	// Init logger
	log := logger.New(cfg.Logging.Level)
	log.Info("starting agent-console")

	// Init database
	db, err := storage.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	repo := storage.NewRepository(db)

	// Context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect the console bot
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Error("telegram bot init failed", "error", err)
		os.Exit(1)
	}
	log.Info("telegram bot connected", "username", api.Self.UserName)

	// Init services
	notifier := telegram.NewNotifier(api, cfg, log)
	prober := supervisor.NewBotAPIProber(log)
	sup := supervisor.New(repo, prober, notifier, cfg.ProbeInterval(), log)
	builder := stats.NewBuilder(repo, sup, log)
	bot := telegram.NewBot(api, repo, builder, i18n.Locale(cfg.Panel.DefaultLocale), log)
	webServer := web.NewServer(repo, builder, cfg, log)

	// Start supervisor in goroutine
	go sup.Run(ctx)

	// Start web server in goroutine
	go func() {
		if err := webServer.Start(); err != nil {
			log.Error("web server error", "error", err)
		}
	}()

	// Start bot loop in goroutine
	go bot.Run(ctx)

	notifier.NotifyStatus("🤖 agent-console started")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutdown signal received", "signal", sig.String())

	// Graceful shutdown
	cancel() // stop supervisor and bot loop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Error("web server shutdown error", "error", err)
	}

	notifier.NotifyStatus("🛑 agent-console stopped")
	log.Info("agent-console stopped")
}
