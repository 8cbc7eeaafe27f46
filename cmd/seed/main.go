package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MARUGO-s/app-sub001/config"
	"github.com/MARUGO-s/app-sub001/internal/database"
	"github.com/MARUGO-s/app-sub001/internal/models"
	"github.com/MARUGO-s/app-sub001/internal/types"
)

// SeedData is the layout of a seed file.
type SeedData struct {
	Recipes []struct {
		Title       string                  `json:"title"`
		Ingredients []types.IngredientLine  `json:"ingredients"`
		Groups      []types.IngredientGroup `json:"groups"`
	} `json:"recipes"`
	Packaging []models.IngredientConversion `json:"packaging"`
	Inventory []models.InventoryItem        `json:"inventory"`
}

const demoSeed = `{
  "recipes": [
    {"title": "食パン", "ingredients": [
      {"name": "強力粉", "quantity": 250, "unit": "g"},
      {"name": "砂糖", "quantity": "1 1/2", "unit": "大さじ"},
      {"name": "塩", "quantity": 5, "unit": "g"},
      {"name": "バター", "quantity": 10, "unit": "g"},
      {"name": "牛乳", "quantity": 180, "unit": "ml"}
    ]},
    {"title": "ミネストローネ", "ingredients": [
      {"name": "玉ねぎ", "quantity": 1, "unit": "個"},
      {"name": "にんじん", "quantity": 0.5, "unit": "本"},
      {"name": "トマト缶", "quantity": 1, "unit": "缶"}
    ]}
  ],
  "packaging": [
    {"ingredient_name": "強力粉", "packet_size": 1, "packet_unit": "kg", "last_price": 450, "vendor": "製粉所"},
    {"ingredient_name": "バター", "packet_size": 200, "packet_unit": "g", "last_price": 520},
    {"ingredient_name": "牛乳", "packet_size": 1, "packet_unit": "l", "last_price": 230}
  ],
  "inventory": [
    {"name": "強力粉", "quantity": 300, "unit": "g"},
    {"name": "玉ねぎ", "quantity": 2, "unit": "個", "vendor": "八百屋"}
  ]
}`

func main() {
	owner := flag.String("owner", "", "Owner id to seed recipes and inventory for")
	file := flag.String("file", "", "Seed file (JSON); the demo data set is used when empty")
	flag.Parse()

	if *owner == "" {
		log.Fatal("-owner is required")
	}

	raw := []byte(demoSeed)
	if *file != "" {
		var err error
		if raw, err = os.ReadFile(*file); err != nil {
			log.Fatalf("Failed to read seed file: %v", err)
		}
	}
	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Fatalf("Failed to parse seed data: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, ""); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return seed(tx, *owner, data)
	})
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}
	log.Printf("Seeded %d recipes, %d packaging profiles and %d inventory rows for %s",
		len(data.Recipes), len(data.Packaging), len(data.Inventory), *owner)
}

func seed(tx *gorm.DB, owner string, data SeedData) error {
	for _, r := range data.Recipes {
		ingredients, err := json.Marshal(r.Ingredients)
		if err != nil {
			return err
		}
		groups, err := json.Marshal(r.Groups)
		if err != nil {
			return err
		}
		if r.Groups == nil {
			groups = []byte("[]")
		}
		recipe := models.Recipe{
			ID:               uuid.NewString(),
			UserID:           owner,
			Title:            r.Title,
			Ingredients:      datatypes.JSON(ingredients),
			IngredientGroups: datatypes.JSON(groups),
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		log.Printf("Created recipe: %s", recipe.Title)
	}

	for i := range data.Packaging {
		data.Packaging[i].ID = 0
	}
	if len(data.Packaging) > 0 {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ingredient_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"packet_size", "packet_unit", "last_price", "vendor", "updated_at"}),
		}).Create(&data.Packaging).Error; err != nil {
			return err
		}
	}

	for i := range data.Inventory {
		data.Inventory[i].ID = 0
		data.Inventory[i].UserID = owner
	}
	if len(data.Inventory) > 0 {
		if err := tx.Create(&data.Inventory).Error; err != nil {
			return err
		}
	}
	return nil
}
