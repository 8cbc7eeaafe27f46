package shortage

import (
	"context"

	"github.com/MARUGO-s/app-sub001/internal/mealplan"
	"github.com/MARUGO-s/app-sub001/internal/types"
)

// PlanSource supplies the owner's meal calendar.
type PlanSource interface {
	GetAll(ctx context.Context, ownerID string) (mealplan.PlanMap, error)
}

type RecipeRepository interface {
	FetchRecipes(ctx context.Context, ownerID string) ([]types.Recipe, error)
}

type InventoryRepository interface {
	GetAll(ctx context.Context, ownerID string) ([]types.StockRow, error)
}

// PackagingRepository returns packaging profiles keyed by ingredient name.
type PackagingRepository interface {
	GetAllConversions(ctx context.Context) (map[string]types.PackagingProfile, error)
}

// PriceRepository returns the owner's price sheet keyed by ingredient key.
type PriceRepository interface {
	FetchPriceList(ctx context.Context, ownerID string) (map[string]types.PriceEntry, error)
}

// UnitOverrideRepository returns the order unit chosen per ingredient name.
type UnitOverrideRepository interface {
	GetAll(ctx context.Context, ownerID string) (map[string]string, error)
}

// Repositories bundles the collaborators an Aggregator reads from. Only
// Recipes is required; a nil repository contributes no data.
type Repositories struct {
	Recipes   RecipeRepository
	Inventory InventoryRepository
	Packaging PackagingRepository
	Prices    PriceRepository
	Overrides UnitOverrideRepository
}
