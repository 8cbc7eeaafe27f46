package main

import (
	"flag"
	"log"

	"github.com/MARUGO-s/app-sub001/config"
	"github.com/MARUGO-s/app-sub001/internal/database"
)

func main() {
	// Parse command line flags
	migrationsDir := flag.String("dir", "migrations", "Directory holding SQL migration files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get database handle: %v", err)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(db, *migrationsDir); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	log.Println("All migrations applied successfully.")
}
