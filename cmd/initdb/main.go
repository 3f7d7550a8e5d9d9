package main

import (
	"lostfound/internal/pkg/config"
	database "lostfound/internal/pkg/db"
	"lostfound/internal/pkg/logger"
	"lostfound/internal/service/migrate"
)

// initdb creates the tables and prints what exists afterwards.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	logger.Setup()
	defer logger.Sync()

	db, err := database.Setup(&cfg.DB)
	if err != nil {
		logger.Error.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migrate.Run(db); err != nil {
		logger.Error.Fatalf("Failed to migrate database: %v", err)
	}

	tables, err := db.Tables()
	if err != nil {
		logger.Error.Fatalf("Failed to list tables: %v", err)
	}
	logger.Info.Println("Database initialized successfully!")
	for _, table := range tables {
		logger.Info.Printf("  %s", table)
	}
}
