package shortage

import (
	"math"
	"sort"
)

// breakdownEpsilon hides contributions too small to explain anything.
const breakdownEpsilon = 1e-4

// Requirement is the accumulated need for one ingredient in one unit.
type Requirement struct {
	Name      string
	Key       string
	Unit      string
	Quantity  float64
	RecipeIDs []string
}

// Contribution is one recipe's share of a requirement.
type Contribution struct {
	Name     string  `json:"name"`
	Key      string  `json:"key"`
	Unit     string  `json:"unit"`
	Required float64 `json:"required"`
}

type bucketKey struct {
	key  string
	unit string
}

type recipeBucketKey struct {
	recipeID string
	bucketKey
}

// aggregation sums contributions by (ingredient key, unit). Units that did
// not resolve to g or ml never merge with anything but the same label.
type aggregation struct {
	order   []bucketKey
	buckets map[bucketKey]*Requirement

	withBreakdown bool
	recipeOrder   []recipeBucketKey
	perRecipe     map[recipeBucketKey]*Contribution
}

func newAggregation(withBreakdown bool) *aggregation {
	return &aggregation{
		buckets:       make(map[bucketKey]*Requirement),
		withBreakdown: withBreakdown,
		perRecipe:     make(map[recipeBucketKey]*Contribution),
	}
}

// add records qty of an ingredient for a recipe. A non-finite amount counts
// as zero.
func (a *aggregation) add(recipeID, name, key, unit string, qty float64) {
	if !isFinite(qty) {
		qty = 0
	}
	bk := bucketKey{key: key, unit: unit}
	req, ok := a.buckets[bk]
	if !ok {
		req = &Requirement{Name: name, Key: key, Unit: unit}
		a.buckets[bk] = req
		a.order = append(a.order, bk)
	}
	req.Quantity += qty
	if !containsString(req.RecipeIDs, recipeID) {
		req.RecipeIDs = append(req.RecipeIDs, recipeID)
	}

	if !a.withBreakdown {
		return
	}
	rk := recipeBucketKey{recipeID: recipeID, bucketKey: bk}
	c, ok := a.perRecipe[rk]
	if !ok {
		c = &Contribution{Name: name, Key: key, Unit: unit}
		a.perRecipe[rk] = c
		a.recipeOrder = append(a.recipeOrder, rk)
	}
	c.Required += qty
}

// requirements returns the totals in first-seen order.
func (a *aggregation) requirements() []Requirement {
	out := make([]Requirement, 0, len(a.order))
	for _, bk := range a.order {
		out = append(out, *a.buckets[bk])
	}
	return out
}

// breakdown groups non-negligible contributions by recipe.
func (a *aggregation) breakdown() map[string][]Contribution {
	out := make(map[string][]Contribution)
	for _, rk := range a.recipeOrder {
		c := a.perRecipe[rk]
		if c.Required <= breakdownEpsilon {
			continue
		}
		out[rk.recipeID] = append(out[rk.recipeID], *c)
	}
	for _, list := range out {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
