package main

import (
	"os"

	"gatehouse/cmd/migration/initialize"
	"gatehouse/cmd/migration/seed"
	"gatehouse/config"
	"gatehouse/internal/database"
	"gatehouse/internal/logger"
)

func main() {
	config, err := config.InitConfig()
	if err != nil {
		os.Exit(1)
	}

	logger.Init(config.LogLevel, config.LogFormat)
	log := logger.New("migration")

	db, err := database.New(config)
	if err != nil {
		log.Er("failed to connect to database", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Er("failed to run migrations", err)
		os.Exit(1)
	}

	if err := initialize.InitializeTables(db.SQL, config, log); err != nil {
		log.Er("failed to initialize tables", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := seed.Seed(db.SQL, config, log); err != nil {
			log.Er("failed to seed database", err)
			os.Exit(1)
		}
	}

	log.Info("Migration complete")
}
