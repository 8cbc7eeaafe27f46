package service

import (
	"context"
	"log"
	"sync"

	"github.com/MARUGO-s/app-sub001/internal/mealplan"
	"github.com/MARUGO-s/app-sub001/internal/shortage"
)

// RecipeIDLister lists the recipes that still exist for an owner.
type RecipeIDLister interface {
	RecipeIDs(ctx context.Context, ownerID string) ([]string, error)
}

// PlannerConfig tunes the stores and aggregators a Planner hands out.
type PlannerConfig struct {
	Store        mealplan.Options
	WarningLimit int
}

// Planner wires the meal plan store and the shortage engine together for
// each owner. Every owner gets a private warning queue so notices are only
// delivered to the user whose request caused them.
type Planner struct {
	remote  mealplan.Remote
	cache   mealplan.LocalCache
	repos   shortage.Repositories
	recipes RecipeIDLister
	cfg     PlannerConfig

	mu    sync.Mutex
	diags map[string]*mealplan.Diagnostics
}

// NewPlanner creates a Planner. recipes may be nil, in which case cleanup
// requests must name the valid recipes themselves.
func NewPlanner(remote mealplan.Remote, cache mealplan.LocalCache, repos shortage.Repositories, recipes RecipeIDLister, cfg PlannerConfig) *Planner {
	if cfg.WarningLimit <= 0 {
		cfg.WarningLimit = mealplan.DefaultWarningLimit
	}
	return &Planner{
		remote:  remote,
		cache:   cache,
		repos:   repos,
		recipes: recipes,
		cfg:     cfg,
		diags:   make(map[string]*mealplan.Diagnostics),
	}
}

func (p *Planner) diagnostics(ownerID string) *mealplan.Diagnostics {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.diags[ownerID]
	if !ok {
		d = mealplan.NewDiagnostics(p.cfg.WarningLimit)
		p.diags[ownerID] = d
	}
	return d
}

// Store returns a store reporting into the owner's warning queue.
func (p *Planner) Store(ownerID string) *mealplan.Store {
	return mealplan.NewStore(p.remote, p.cache, p.diagnostics(ownerID), p.cfg.Store)
}

// Aggregator returns a shortage aggregator reading the owner's calendar
// through Store and sharing its warning queue.
func (p *Planner) Aggregator(ownerID string) *shortage.Aggregator {
	return shortage.NewAggregator(p.Store(ownerID), p.repos, p.diagnostics(ownerID))
}

// ConsumeWarnings drains the owner's warning queue.
func (p *Planner) ConsumeWarnings(ownerID string) []string {
	return p.diagnostics(ownerID).Drain()
}

// Cleanup removes meals referencing deleted recipes. When validRecipeIDs is
// empty the owner's recipes are looked up; if that fails the calendar is
// left untouched.
func (p *Planner) Cleanup(ctx context.Context, ownerID string, validRecipeIDs []string) (mealplan.PlanMap, error) {
	store := p.Store(ownerID)
	if len(validRecipeIDs) == 0 && p.recipes != nil && ownerID != "" {
		ids, err := p.recipes.RecipeIDs(ctx, ownerID)
		if err != nil {
			log.Printf("planner: listing recipes for %s failed: %v", ownerID, err)
			p.diagnostics(ownerID).Warn("Recipes could not be loaded, so no meals were cleaned up.")
		} else {
			validRecipeIDs = ids
		}
	}
	return store.CleanupInvalidPlans(ctx, ownerID, validRecipeIDs)
}
