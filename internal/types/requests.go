package types

// AddMealRequest represents the request body for planning a meal
type AddMealRequest struct {
	Date        string   `json:"date" binding:"required"`
	RecipeID    string   `json:"recipe_id" binding:"required"`
	MealType    string   `json:"meal_type"`
	Note        string   `json:"note"`
	Multiplier  float64  `json:"multiplier"`
	TotalWeight *float64 `json:"total_weight"`
}

// UpdateMealRequest represents the request body for editing a planned meal.
// Nil fields are left unchanged.
type UpdateMealRequest struct {
	Date             *string  `json:"date"`
	MealType         *string  `json:"meal_type"`
	Note             *string  `json:"note"`
	Multiplier       *float64 `json:"multiplier"`
	TotalWeight      *float64 `json:"total_weight"`
	ClearTotalWeight bool     `json:"clear_total_weight"`
}

// ClearPeriodRequest represents the request body for clearing a date range
type ClearPeriodRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

// CleanupRequest lists the recipe IDs that still exist for the user
type CleanupRequest struct {
	ValidRecipeIDs []string `json:"valid_recipe_ids"`
}

// UnitOverrideRequest pins the order unit for one ingredient
type UnitOverrideRequest struct {
	IngredientName string `json:"ingredient_name" binding:"required"`
	Unit           string `json:"unit" binding:"required"`
}
