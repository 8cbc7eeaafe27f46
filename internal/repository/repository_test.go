package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MARUGO-s/app-sub001/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Recipe{},
		&models.InventoryItem{},
		&models.IngredientConversion{},
		&models.UnitOverride{},
	))
	return db
}

func TestRecipeRepositoryFetchRecipes(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	breadID := uuid.NewString()
	require.NoError(t, db.Create(&[]models.Recipe{
		{
			ID:               breadID,
			UserID:           "user-1",
			Title:            "Country loaf",
			Ingredients:      datatypes.JSON(`[{"name":"flour","quantity":600,"unit":"g"},{"name":"salt","quantity":"1 1/2","unit":"tsp"}]`),
			IngredientGroups: datatypes.JSON(`[]`),
		},
		{
			ID:               uuid.NewString(),
			UserID:           "user-1",
			Title:            "Broken",
			Ingredients:      datatypes.JSON(`{"not":"a list"}`),
			IngredientGroups: datatypes.JSON(`[{"name":"dough","lines":[{"name":"flour","quantity":"200","unit":"g"}]}]`),
		},
		{
			ID:               uuid.NewString(),
			UserID:           "user-2",
			Title:            "Someone else's",
			Ingredients:      datatypes.JSON(`[]`),
			IngredientGroups: datatypes.JSON(`[]`),
		},
	}).Error)

	repo := NewRecipeRepository(db)
	recipes, err := repo.FetchRecipes(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	byTitle := map[string]int{}
	for i, r := range recipes {
		byTitle[r.Title] = i
	}
	bread := recipes[byTitle["Country loaf"]]
	assert.Equal(t, breadID, bread.ID)
	require.Len(t, bread.Ingredients, 2)
	assert.Equal(t, 1.5, bread.Ingredients[1].Quantity.Float())

	broken := recipes[byTitle["Broken"]]
	assert.Empty(t, broken.Ingredients)
	require.Len(t, broken.AllLines(), 1)
	assert.Equal(t, 200.0, broken.AllLines()[0].Quantity.Float())

	ids, err := repo.RecipeIDs(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, breadID)
}

func TestInventoryAndPackagingRepositories(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&[]models.InventoryItem{
		{UserID: "user-1", Name: "flour", Quantity: 1.5, Unit: "kg", Vendor: "Mill Co"},
		{UserID: "user-1", Name: "butter", Quantity: 2, Unit: "個"},
		{UserID: "user-2", Name: "sugar", Quantity: 1, Unit: "kg"},
	}).Error)
	require.NoError(t, db.Create(&models.IngredientConversion{
		IngredientName: "butter", PacketSize: 200, PacketUnit: "g", LastPrice: 380, Vendor: "Dairy",
	}).Error)

	stock, err := NewInventoryRepository(db).GetAll(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, stock, 2)
	assert.Equal(t, "butter", stock[0].Name)
	assert.Equal(t, "Mill Co", stock[1].Vendor)

	profiles, err := NewPackagingRepository(db).GetAllConversions(ctx)
	require.NoError(t, err)
	require.Contains(t, profiles, "butter")
	assert.Equal(t, 200.0, profiles["butter"].PacketSize)
	butter := profiles["butter"]
	assert.True(t, butter.Known())
}

func TestUnitOverrideRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewUnitOverrideRepository(db)

	require.NoError(t, repo.Set(ctx, "user-1", "flour", "袋"))
	require.NoError(t, repo.Set(ctx, "user-1", "flour", "箱"))
	require.NoError(t, repo.Set(ctx, "user-2", "flour", "kg"))

	overrides, err := repo.GetAll(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"flour": "箱"}, overrides)
}
