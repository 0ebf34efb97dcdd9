package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veles/schedulebot/internal/api/rest"
	"github.com/veles/schedulebot/internal/bot"
	"github.com/veles/schedulebot/internal/browser"
	"github.com/veles/schedulebot/internal/portal"
	"github.com/veles/schedulebot/internal/service"
	"github.com/veles/schedulebot/internal/session"
	"github.com/veles/schedulebot/internal/store"
)

const (
	serviceName    = "schedulebot"
	serviceVersion = "1.0.0"
)

func main() {
	log.Printf("Starting %s v%s - University Schedule Bot", serviceName, serviceVersion)

	// Load configuration from environment
	config := loadConfig()

	// Pick the schedule store backend
	scheduleStore, err := openStore(config)
	if err != nil {
		log.Fatalf("Failed to open schedule store: %v", err)
	}
	defer scheduleStore.Close()

	scraper := service.NewPortalScraper(
		browser.Config{
			UserDataDir: config.UserDataDir,
			ProfileDir:  config.ProfileDir,
			ExecPath:    config.ChromePath,
			Headless:    config.Headless,
		},
		portal.Config{
			URL:      config.PortalURL,
			Login:    config.PortalLogin,
			Password: config.PortalPassword,
		},
	)

	svc := service.New(scheduleStore, scraper)
	registry := session.NewRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telegram front-end
	if config.BotToken != "" {
		tgBot, err := bot.New(config.BotToken, svc, registry)
		if err != nil {
			log.Fatalf("Failed to start Telegram bot: %v", err)
		}
		go func() {
			if err := tgBot.Run(ctx); err != nil && err != context.Canceled {
				log.Printf("Telegram bot error: %v", err)
			}
		}()
		log.Println("✓ Telegram bot started")
	} else {
		log.Println("⚠️  BOT_TOKEN not set, running without the Telegram front-end")
	}

	// REST surface
	restServer := rest.NewServer(config.RESTPort, svc)
	go func() {
		log.Printf("Starting REST API server on port %s", config.RESTPort)
		if err := restServer.Start(); err != nil {
			log.Printf("REST server error: %v", err)
		}
	}()

	log.Printf("✓ REST API server listening on :%s", config.RESTPort)
	log.Printf("✓ %s v%s started successfully", serviceName, serviceVersion)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST API server shutdown error: %v", err)
	}

	log.Printf("%s stopped", serviceName)
}

// openStore selects Redis when configured, otherwise the JSON file store.
// The Redis connection is retried since the broker may still be coming up.
func openStore(config Config) (store.ScheduleStore, error) {
	if config.RedisURL == "" {
		s, err := store.NewFileStore(config.StorePath)
		if err != nil {
			return nil, err
		}
		log.Printf("✓ Using file schedule store at %s", config.StorePath)
		return s, nil
	}

	maxRetries := 5
	retryDelay := 2 * time.Second

	log.Println("Connecting to Redis...")
	var s *store.RedisStore
	var err error
	for i := 0; i < maxRetries; i++ {
		s, err = store.NewRedisStore(config.RedisURL)
		if err == nil {
			log.Println("✓ Using Redis schedule store")
			return s, nil
		}
		if i < maxRetries-1 {
			log.Printf("Redis connection attempt %d/%d failed: %v (retrying in %v)", i+1, maxRetries, err, retryDelay)
			time.Sleep(retryDelay)
		}
	}
	return nil, err
}

type Config struct {
	BotToken       string
	PortalURL      string
	PortalLogin    string
	PortalPassword string
	UserDataDir    string
	ProfileDir     string
	ChromePath     string
	Headless       bool
	StorePath      string
	RedisURL       string
	RESTPort       string
}

func loadConfig() Config {
	return Config{
		BotToken:       getEnv("BOT_TOKEN", ""),
		PortalURL:      getEnv("PORTAL_URL", "https://urfu.modeus.org/schedule-calendar"),
		PortalLogin:    getEnv("PORTAL_LOGIN", ""),
		PortalPassword: getEnv("PORTAL_PASSWORD", ""),
		UserDataDir:    getEnv("USER_DATA_DIR", ""),
		ProfileDir:     getEnv("PROFILE_DIR", ""),
		ChromePath:     getEnv("CHROME_PATH", ""),
		Headless:       getEnv("HEADLESS", "true") == "true",
		StorePath:      getEnv("STORE_PATH", "schedule.json"),
		RedisURL:       getEnv("REDIS_URL", ""),
		RESTPort:       getEnv("REST_PORT", "8080"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
