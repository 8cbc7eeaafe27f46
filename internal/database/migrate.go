package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/MARUGO-s/app-sub001/internal/models"
)

// Models lists every table the service owns or reads.
func Models() []interface{} {
	return []interface{}{
		&models.MealPlan{},
		&models.Recipe{},
		&models.InventoryItem{},
		&models.IngredientConversion{},
		&models.UnitOverride{},
	}
}

// RunMigrations auto-migrates the models, then on PostgreSQL executes the
// SQL files in migrationsDir that have not been applied yet.
func RunMigrations(db *gorm.DB, migrationsDir string) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}

	if db.Dialector.Name() != "postgres" || migrationsDir == "" {
		return nil
	}

	entries, err := os.ReadDir(migrationsDir)
	if os.IsNotExist(err) {
		log.Printf("Migrations directory %s not found; skipping SQL migrations", migrationsDir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	// Sort files by name to ensure correct order
	sort.Strings(files)

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, name := range files {
		// Check if migration has already been applied
		var count int64
		if err := db.Table("migrations").Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.Printf("Skipping migration %s (already applied)", name)
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", name, err)
			}
			if err := tx.Exec("INSERT INTO migrations (name) VALUES (?)", name).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Printf("Applied migration %s", name)
	}

	return nil
}
