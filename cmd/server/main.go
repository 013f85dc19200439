package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"viralflow/internal/adapters/genai"
	"viralflow/internal/adapters/store"
	"viralflow/internal/adapters/web"
	"viralflow/internal/config"
	"viralflow/internal/usecases"
	"viralflow/pkg/log"
)

func main() {
	// bootstrap logger until the configured one takes over
	log.SetDefault(log.New(log.Info, log.NewStdout()))

	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fatal("load configuration", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		fatal("parse log level", err)
	}
	logger := log.New(level, log.NewStdout())
	log.SetDefault(logger)
	defer logger.Close()

	db, err := store.OpenBadger(cfg.DataDir)
	if err != nil {
		fatal("open store", err)
	}
	defer db.Close()

	client := genai.NewClient(cfg)
	accounts := usecases.NewAccountsUseCase(db)
	sessions := usecases.NewSessionManager(client, db, cfg.SessionTTL)

	handlers := web.NewHandlers(accounts, sessions, cfg.Timeout)
	rateLimiter := web.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)

	app := fiber.New(fiber.Config{
		AppName:   "ViralFlow",
		BodyLimit: 20 * 1024 * 1024, // uploaded shot images arrive as data URIs
	})

	app.Use(recover.New())
	app.Use(requestid.New(web.RequestIDConfig()))
	app.Use(web.RequestIDToContextMiddleware())
	app.Use(web.RequestLoggerMiddleware())

	web.SetupRoutes(app, handlers, rateLimiter)

	log.GlobalInfo("starting server", "port", cfg.Port, "data_dir", cfg.DataDir)
	if err := app.Listen(":" + cfg.Port); err != nil {
		fatal("server stopped", err)
	}
}

func fatal(msg string, err error) {
	log.GlobalFatal(msg, "error", err.Error())
	os.Exit(1)
}
