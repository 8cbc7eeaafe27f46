package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/MARUGO-s/app-sub001/internal/mealplan"
	"github.com/MARUGO-s/app-sub001/internal/models"
	"github.com/MARUGO-s/app-sub001/internal/repository"
	"github.com/MARUGO-s/app-sub001/internal/shortage"
	"github.com/MARUGO-s/app-sub001/internal/testhelpers"
)

type mockRecipeIDs struct {
	mock.Mock
}

func (m *mockRecipeIDs) RecipeIDs(ctx context.Context, ownerID string) ([]string, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func newTestPlanner(t *testing.T, recipes RecipeIDLister) *Planner {
	db := testhelpers.SetupSQLiteDatabase(t)
	require.NoError(t, db.Create(&models.Recipe{
		ID:          "bread",
		UserID:      "user-1",
		Title:       "Loaf",
		Ingredients: datatypes.JSON(`[{"name":"flour","quantity":500,"unit":"g"}]`),
	}).Error)

	repos := shortage.Repositories{
		Recipes:   repository.NewRecipeRepository(db),
		Inventory: repository.NewInventoryRepository(db),
	}
	return NewPlanner(mealplan.NewGormRemote(db), mealplan.NewMemoryCache(), repos, recipes, PlannerConfig{})
}

func TestPlannerWarningsArePerOwner(t *testing.T) {
	p := newTestPlanner(t, nil)

	p.diagnostics("user-1").Warn("only for user one")

	assert.Equal(t, []string{}, p.ConsumeWarnings("user-2"))
	assert.Equal(t, []string{"only for user one"}, p.ConsumeWarnings("user-1"))
	assert.Equal(t, []string{}, p.ConsumeWarnings("user-1"))
}

func TestPlannerAggregatorReadsOwnersCalendar(t *testing.T) {
	p := newTestPlanner(t, nil)
	ctx := context.Background()

	_, err := p.Store("user-1").AddMeal(ctx, "user-1", "2024-05-01", "bread", "", mealplan.MealOptions{Multiplier: 2})
	require.NoError(t, err)

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	report, err := p.Aggregator("user-1").CalculateShortages(ctx, "user-1", day, day, shortage.Options{})
	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.Equal(t, 1000.0, report.Items[0].ToOrder)

	report, err = p.Aggregator("user-2").CalculateShortages(ctx, "user-2", day, day, shortage.Options{})
	require.NoError(t, err)
	assert.Empty(t, report.Items)
}

func TestPlannerCleanupLooksUpRecipes(t *testing.T) {
	recipes := new(mockRecipeIDs)
	recipes.On("RecipeIDs", mock.Anything, "user-1").Return([]string{"bread"}, nil)
	p := newTestPlanner(t, recipes)
	ctx := context.Background()

	store := p.Store("user-1")
	_, err := store.AddMeal(ctx, "user-1", "2024-05-01", "bread", "", mealplan.MealOptions{})
	require.NoError(t, err)
	_, err = store.AddMeal(ctx, "user-1", "2024-05-02", "deleted-recipe", "", mealplan.MealOptions{})
	require.NoError(t, err)

	plans, err := p.Cleanup(ctx, "user-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, plans.Len())
	assert.Contains(t, plans, "2024-05-01")
	recipes.AssertExpectations(t)
}

func TestPlannerCleanupKeepsCalendarWhenRecipesFail(t *testing.T) {
	recipes := new(mockRecipeIDs)
	recipes.On("RecipeIDs", mock.Anything, "user-1").Return(nil, errors.New("db down"))
	p := newTestPlanner(t, recipes)
	ctx := context.Background()

	_, err := p.Store("user-1").AddMeal(ctx, "user-1", "2024-05-02", "deleted-recipe", "", mealplan.MealOptions{})
	require.NoError(t, err)

	plans, err := p.Cleanup(ctx, "user-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, plans.Len())
	assert.Equal(t, []string{"Recipes could not be loaded, so no meals were cleaned up."}, p.ConsumeWarnings("user-1"))
}
