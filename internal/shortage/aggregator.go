package shortage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MARUGO-s/app-sub001/internal/mealplan"
	"github.com/MARUGO-s/app-sub001/internal/types"
	"github.com/MARUGO-s/app-sub001/internal/units"
)

// Options tunes a single calculation.
type Options struct {
	IncludeRecipeBreakdown bool
}

// Aggregator turns the planned meals of a period into reorder recommendations.
type Aggregator struct {
	plans PlanSource
	repos Repositories
	diag  *mealplan.Diagnostics
}

// NewAggregator creates an Aggregator. diag is usually the sink shared with
// the meal plan store so callers drain a single warning queue.
func NewAggregator(plans PlanSource, repos Repositories, diag *mealplan.Diagnostics) *Aggregator {
	if diag == nil {
		diag = mealplan.NewDiagnostics(mealplan.DefaultWarningLimit)
	}
	return &Aggregator{plans: plans, repos: repos, diag: diag}
}

// masterData is everything read from the repositories for one calculation,
// re-keyed by normalized ingredient key.
type masterData struct {
	recipes   map[string]types.Recipe
	stock     map[string][]types.StockRow
	packaging map[string]types.PackagingProfile
	prices    map[string]types.PriceEntry
	overrides map[string]string
}

// CalculateShortages aggregates every meal dated from start through the end
// of end's day and reports what must be ordered. Missing recipes are skipped
// and failing repositories degrade to empty data with a warning; the only
// error returned is mealplan.ErrMissingOwner.
func (a *Aggregator) CalculateShortages(ctx context.Context, ownerID string, start, end time.Time, opts Options) (*Report, error) {
	report := newReport(opts)
	if ownerID == "" {
		return report, mealplan.ErrMissingOwner
	}

	plans, err := a.plans.GetAll(ctx, ownerID)
	if err != nil {
		return report, err
	}
	entries := selectPeriod(plans, start, end)
	if len(entries) == 0 {
		return report, nil
	}

	data, err := a.load(ctx, ownerID)
	if err != nil {
		a.warn("Recipes could not be loaded, so shortages were not calculated.", err)
		return report, nil
	}

	agg := newAggregation(opts.IncludeRecipeBreakdown)
	for _, e := range entries {
		recipe, ok := data.recipes[e.RecipeID]
		if !ok {
			log.Printf("shortage: skipping meal %s, recipe %s not found", e.ID, e.RecipeID)
			continue
		}
		scale := scaleFor(e, recipe)
		for _, line := range recipe.AllLines() {
			key := units.NormalizeKey(line.Name)
			if key == "" {
				continue
			}
			var profile *types.PackagingProfile
			if p, ok := data.packaging[key]; ok {
				profile = &p
			}
			qty, unit := units.ResolveAgainstPackaging(line.Quantity.Float()*scale, line.Unit, profile)
			agg.add(recipe.ID, strings.TrimSpace(line.Name), key, unit, qty)
		}
	}

	for _, req := range agg.requirements() {
		if item, ok := decide(req, data); ok {
			report.Items = append(report.Items, item)
			report.TotalEstimatedCost += item.EstimatedCost
		}
	}
	sortItems(report.Items)

	if opts.IncludeRecipeBreakdown {
		report.RecipeBreakdown = agg.breakdown()
	}
	return report, nil
}

// load reads every repository concurrently. Only a recipe failure is fatal.
func (a *Aggregator) load(ctx context.Context, ownerID string) (*masterData, error) {
	var (
		recipes   []types.Recipe
		stock     []types.StockRow
		packaging map[string]types.PackagingProfile
		prices    map[string]types.PriceEntry
		overrides map[string]string

		stockErr, packagingErr, pricesErr, overridesErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if a.repos.Recipes == nil {
			return errors.New("no recipe repository configured")
		}
		rows, err := a.repos.Recipes.FetchRecipes(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("failed to fetch recipes: %w", err)
		}
		recipes = rows
		return nil
	})
	g.Go(func() error {
		if a.repos.Inventory != nil {
			stock, stockErr = a.repos.Inventory.GetAll(gctx, ownerID)
		}
		return nil
	})
	g.Go(func() error {
		if a.repos.Packaging != nil {
			packaging, packagingErr = a.repos.Packaging.GetAllConversions(gctx)
		}
		return nil
	})
	g.Go(func() error {
		if a.repos.Prices != nil {
			prices, pricesErr = a.repos.Prices.FetchPriceList(gctx, ownerID)
		}
		return nil
	})
	g.Go(func() error {
		if a.repos.Overrides != nil {
			overrides, overridesErr = a.repos.Overrides.GetAll(gctx, ownerID)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if stockErr != nil {
		a.warn("Inventory could not be loaded; current stock is treated as zero.", stockErr)
	}
	if packagingErr != nil {
		a.warn("Packaging data could not be loaded; quantities are shown in recipe units.", packagingErr)
	}
	if pricesErr != nil {
		a.warn("The price list could not be loaded; prices and order units may be missing.", pricesErr)
	}
	if overridesErr != nil {
		a.warn("Custom order units could not be loaded.", overridesErr)
	}

	data := &masterData{
		recipes:   make(map[string]types.Recipe, len(recipes)),
		stock:     make(map[string][]types.StockRow),
		packaging: make(map[string]types.PackagingProfile, len(packaging)),
		prices:    make(map[string]types.PriceEntry, len(prices)),
		overrides: make(map[string]string, len(overrides)),
	}
	for _, r := range recipes {
		data.recipes[r.ID] = r
	}
	for _, row := range stock {
		key := units.NormalizeKey(row.Name)
		data.stock[key] = append(data.stock[key], row)
	}
	for name, p := range packaging {
		data.packaging[units.NormalizeKey(name)] = p
	}
	for name, p := range prices {
		data.prices[units.NormalizeKey(name)] = p
	}
	for name, unit := range overrides {
		if u := strings.TrimSpace(unit); u != "" {
			data.overrides[units.NormalizeKey(name)] = u
		}
	}
	return data, nil
}

func (a *Aggregator) warn(msg string, err error) {
	log.Printf("shortage: %s: %v", msg, err)
	a.diag.Warn(msg)
}

// selectPeriod returns the entries dated within [start, end] by calendar day.
func selectPeriod(plans mealplan.PlanMap, start, end time.Time) []mealplan.Entry {
	from := start.Format(mealplan.DateLayout)
	to := end.Format(mealplan.DateLayout)
	var out []mealplan.Entry
	for _, e := range plans.Entries() {
		if e.DateKey >= from && e.DateKey <= to {
			out = append(out, e)
		}
	}
	return out
}

// scaleFor returns the factor applied to every line of the meal's recipe.
func scaleFor(e mealplan.Entry, recipe types.Recipe) float64 {
	if e.WeightScaled() {
		base := BaseWeight(recipe)
		if base <= 0 {
			return 1
		}
		return *e.TotalWeight / base
	}
	if e.Multiplier > 0 {
		return e.Multiplier
	}
	return 1
}

// BaseWeight sums the recipe lines measured in weight or volume, in grams
// and millilitres alike. Lines in any other unit do not count.
func BaseWeight(recipe types.Recipe) float64 {
	total := 0.0
	for _, line := range recipe.AllLines() {
		qty, unit := units.ToBaseUnit(line.Quantity.Float(), line.Unit)
		if !isFinite(qty) {
			continue
		}
		if unit == units.Gram || unit == units.Millilitre {
			total += qty
		}
	}
	return total
}
