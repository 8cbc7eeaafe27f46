package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/MARUGO-s/app-sub001/internal/models"
	"github.com/MARUGO-s/app-sub001/internal/types"
)

// RecipeRepository reads recipes and their ingredient lines from the recipes table.
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new RecipeRepository instance
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// FetchRecipes returns every recipe the owner can plan. A row whose
// ingredient JSON cannot be decoded is returned without lines.
func (r *RecipeRepository) FetchRecipes(ctx context.Context, ownerID string) ([]types.Recipe, error) {
	var rows []models.Recipe
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recipes: %w", err)
	}

	recipes := make([]types.Recipe, 0, len(rows))
	for _, row := range rows {
		recipes = append(recipes, recipeFromRow(row))
	}
	return recipes, nil
}

// RecipeIDs returns the ids of the owner's recipes, used to garbage collect
// meal plans that point at deleted recipes.
func (r *RecipeRepository) RecipeIDs(ctx context.Context, ownerID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("user_id = ?", ownerID).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipe ids: %w", err)
	}
	return ids, nil
}

func recipeFromRow(row models.Recipe) types.Recipe {
	recipe := types.Recipe{ID: row.ID, Title: row.Title}
	if len(row.Ingredients) > 0 {
		if err := json.Unmarshal(row.Ingredients, &recipe.Ingredients); err != nil {
			log.Printf("recipe %s: failed to decode ingredients: %v", row.ID, err)
			recipe.Ingredients = nil
		}
	}
	if len(row.IngredientGroups) > 0 {
		if err := json.Unmarshal(row.IngredientGroups, &recipe.Groups); err != nil {
			log.Printf("recipe %s: failed to decode ingredient groups: %v", row.ID, err)
			recipe.Groups = nil
		}
	}
	return recipe
}
