package main

import (
	"os"
	"os/signal"
	"syscall"

	"gatehouse/config"
	"gatehouse/internal/app"
	"gatehouse/internal/handlers"
	"gatehouse/internal/logger"

	"github.com/gofiber/fiber/v2"
)

func main() {
	bootConfig, err := config.InitConfig()
	if err != nil {
		os.Exit(1)
	}

	logger.Init(bootConfig.LogLevel, bootConfig.LogFormat)
	log := logger.New("main")

	application, err := app.New()
	if err != nil {
		log.Er("failed to create app", err)
		os.Exit(1)
	}

	if err := application.Database.Migrate(); err != nil {
		log.Er("failed to run migrations", err)
		os.Exit(1)
	}

	server := fiber.New(fiber.Config{
		AppName: "gatehouse",
	})

	if err := handlers.Router(server, application); err != nil {
		log.Er("failed to register routes", err)
		os.Exit(1)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-shutdown
		log.Info("shutting down")
		if err := server.Shutdown(); err != nil {
			log.Er("failed to shut down server", err)
		}
	}()

	log.Info("listening", "port", application.Config.ServerPort)
	if err := server.Listen(":" + application.Config.ServerPort); err != nil {
		log.Er("server stopped", err)
	}

	if err := application.Close(); err != nil {
		log.Er("failed to close app", err)
	}
}
