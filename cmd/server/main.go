package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/forexpro/backend/internal/cache"
	"github.com/forexpro/backend/internal/config"
	"github.com/forexpro/backend/internal/handler"
	"github.com/forexpro/backend/internal/repository"
	"github.com/forexpro/backend/internal/server"
	"github.com/forexpro/backend/internal/service"
	"github.com/forexpro/backend/internal/telegram"
	"github.com/forexpro/backend/internal/token"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	setupLogging(cfg.Server.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Migrate and connect to database
	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(cfg.Database.DSN()); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	repo, err := repository.New(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	// Shared store for rate limits and lookups
	var store cache.Store
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedis(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB, "forexpro:")
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		store = rdb
		log.Infof("Using redis store at %s", cfg.Redis.Addr())
	} else {
		mem := cache.NewMemory()
		go mem.RunJanitor(ctx, time.Minute)
		store = mem
		log.Info("Using in-memory store")
	}
	defer store.Close()

	// Create services
	tokens := token.NewManager(cfg.Server.JWTSecret)
	ratesSvc := service.NewRatesService(repo, cfg.Rates.USDToKSH, cfg.Rates.CacheTTL)
	authSvc := service.NewAuthService(repo, tokens)
	referralSvc := service.NewReferralService(repo, repo)
	botSvc := service.NewBotService(repo, repo, ratesSvc)
	walletSvc := service.NewWalletService(repo, repo, repo, ratesSvc, store, config.DepositAddressTTL)
	profileSvc := service.NewProfileService(repo, repo, repo, ratesSvc, cfg.Server.UploadDir)
	adminSvc := service.NewAdminService(repo, repo, repo, repo, ratesSvc)

	// Set dependencies (to avoid circular dependency)
	profileSvc.SetWalletService(walletSvc)
	adminSvc.SetBotService(botSvc)
	adminSvc.SetWalletService(walletSvc)

	// Admin notifications
	if cfg.Telegram.Enabled() {
		bot, err := telegram.NewBot(cfg.Telegram, adminSvc)
		if err != nil {
			log.Warnf("Failed to create Telegram bot: %v", err)
		} else {
			walletSvc.SetNotifier(bot)
			go bot.StartPolling(ctx)
			log.Infof("Telegram bot @%s notifying chat %d", bot.GetBotUsername(), cfg.Telegram.AdminChatID)
		}
	}

	healthWorker := service.NewHealthWorker(repo)
	go healthWorker.Start(ctx)

	// Create handlers
	deps := server.Deps{
		Config:  cfg,
		Store:   store,
		Tokens:  tokens,
		Handler: handler.New(authSvc, profileSvc, referralSvc, botSvc, walletSvc, ratesSvc, healthWorker),
		Admin:   handler.NewAdminHandler(adminSvc, authSvc),
	}

	names := server.Select(cfg)
	if len(names) == 0 {
		log.Fatalf("No services selected by SERVICES=%v", cfg.Server.Services)
	}

	var (
		apps []*fiber.App
		wg   sync.WaitGroup
	)
	for _, name := range names {
		app, err := server.New(name, deps)
		if err != nil {
			log.Fatalf("Failed to build %s service: %v", name, err)
		}
		port, err := server.Port(cfg, name)
		if err != nil {
			log.Fatalf("Failed to resolve %s port: %v", name, err)
		}
		apps = append(apps, app)

		wg.Add(1)
		go func(name, port string, app *fiber.App) {
			defer wg.Done()
			log.Infof("%s service starting on port %s", name, port)
			if err := app.Listen(":" + port); err != nil {
				log.Fatalf("Failed to start %s service: %v", name, err)
			}
		}(name, port, app)
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down services...")
	cancel()
	for _, app := range apps {
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Errorf("Shutdown error: %v", err)
		}
	}
	wg.Wait()
}

func setupLogging(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
