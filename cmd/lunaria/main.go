package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/lunaria-app/lunaria/internal/ai"
	"github.com/lunaria-app/lunaria/internal/api"
	"github.com/lunaria-app/lunaria/internal/changefeed"
	"github.com/lunaria-app/lunaria/internal/cli"
	"github.com/lunaria-app/lunaria/internal/db"
	"github.com/lunaria-app/lunaria/internal/security"
	"github.com/lunaria-app/lunaria/internal/services"
)

func main() {
	resetPin := flag.Bool("reset-pin", false, "generate and store a temporary PIN, then exit")
	flag.Parse()

	dbPath := getEnv("DB_PATH", filepath.Join("data", "lunaria.db"))

	if *resetPin {
		if err := cli.RunResetPinCommand(dbPath); err != nil {
			log.Fatalf("reset pin failed: %v", err)
		}
		return
	}

	location := mustLoadLocation(getEnv("TZ", "UTC"))
	time.Local = location

	secretKey := getEnv("SECRET_KEY", "change_me_in_production")
	port := getEnv("PORT", "8080")

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	changes := changefeed.NewBus()
	repos := db.NewRepositories(database, changes)

	aggregator := services.NewAggregator(repos.Logs, changes)
	if err := aggregator.Reload(); err != nil {
		log.Fatalf("initial data load failed: %v", err)
	}

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()
	go aggregator.Run(lifecycleCtx)

	backup := services.NewBackupService(repos.Logs, repos.Settings)
	pinLock := security.NewPinLock(repos.Settings)
	advice := ai.NewAdviceService(buildGenerator(lifecycleCtx))

	handler := api.NewHandler(repos, aggregator, backup, advice, pinLock, secretKey, getEnv("COOKIE_SECURE", "") == "1")

	app := fiber.New(fiber.Config{
		AppName:               "Lunaria",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Lunaria listening on http://0.0.0.0:%s (db: %s, tz: %s)", port, dbPath, location.String())
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func buildGenerator(ctx context.Context) ai.TextGenerator {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Printf("GEMINI_API_KEY is not set, advice flows will return the fallback message")
		return nil
	}

	generator, err := ai.NewGeminiGenerator(ctx, apiKey, os.Getenv("GEMINI_MODEL"))
	if err != nil {
		log.Printf("gemini init failed, advice flows will return the fallback message: %v", err)
		return nil
	}
	return generator
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
