package shortage

import (
	"math"
	"sort"

	"github.com/MARUGO-s/app-sub001/internal/types"
	"github.com/MARUGO-s/app-sub001/internal/units"
)

const (
	// minRemainingRatio is the share of one pack that should stay in stock.
	minRemainingRatio = 0.2
	// boundaryTolerance keeps a remainder sitting exactly on the minimum
	// from triggering an order through float noise.
	boundaryTolerance = 1e-9
	// orderEpsilon ignores shortfalls too small to order.
	orderEpsilon = 0.01
)

// Item is the reorder recommendation for one ingredient.
type Item struct {
	Name          string   `json:"name"`
	Key           string   `json:"key"`
	Unit          string   `json:"unit"`
	Required      float64  `json:"required"`
	Stock         float64  `json:"stock"`
	Remaining     float64  `json:"remaining"`
	ToOrder       float64  `json:"to_order"`
	OrderUnit     string   `json:"order_unit"`
	Vendor        string   `json:"vendor"`
	PackPrice     float64  `json:"pack_price"`
	PacketSize    float64  `json:"packet_size,omitempty"`
	PacketUnit    string   `json:"packet_unit,omitempty"`
	EstimatedCost float64  `json:"estimated_cost"`
	RecipeIDs     []string `json:"recipe_ids"`
}

// Report is the result of one calculation.
type Report struct {
	Items              []Item                    `json:"items"`
	RecipeBreakdown    map[string][]Contribution `json:"recipe_breakdown,omitempty"`
	TotalEstimatedCost float64                   `json:"total_estimated_cost"`
}

func newReport(opts Options) *Report {
	r := &Report{Items: []Item{}}
	if opts.IncludeRecipeBreakdown {
		r.RecipeBreakdown = map[string][]Contribution{}
	}
	return r
}

// decide applies the reorder rules to one requirement. With a usable pack
// size the item is ordered in whole packs once stock would fall below a fifth
// of a pack; otherwise the raw shortfall is ordered in the recipe's unit.
func decide(req Requirement, data *masterData) (Item, bool) {
	stock, stockVendor := stockFor(req, data)
	profile, hasProfile := data.packaging[req.Key]
	price, hasPrice := data.prices[req.Key]

	item := Item{
		Name:      req.Name,
		Key:       req.Key,
		Unit:      req.Unit,
		Required:  req.Quantity,
		Stock:     stock,
		Remaining: stock - req.Quantity,
		OrderUnit: orderUnit(req.Key, data),
		RecipeIDs: req.RecipeIDs,
	}

	switch {
	case stockVendor != "":
		item.Vendor = stockVendor
	case hasProfile && profile.Vendor != "":
		item.Vendor = profile.Vendor
	case hasPrice:
		item.Vendor = price.Vendor
	}
	switch {
	case hasProfile && profile.LastPrice > 0:
		item.PackPrice = profile.LastPrice
	case hasPrice:
		item.PackPrice = price.Price
	}

	if hasProfile && profile.Known() {
		packSize, packUnit := units.ToBaseUnit(profile.PacketSize, profile.PacketUnit)
		if packSize > 0 && packUnit == req.Unit {
			item.PacketSize = profile.PacketSize
			item.PacketUnit = profile.PacketUnit
			minRemaining := minRemainingRatio * packSize
			if item.Remaining >= minRemaining-boundaryTolerance {
				return Item{}, false
			}
			packs := math.Ceil((minRemaining - item.Remaining) / packSize)
			if packs < 1 {
				packs = 1
			}
			item.ToOrder = packs
			item.EstimatedCost = packs * item.PackPrice
			return item, true
		}
	}

	toOrder := math.Max(0, req.Quantity-stock)
	if toOrder <= orderEpsilon {
		return Item{}, false
	}
	item.ToOrder = toOrder
	return item, true
}

// stockFor sums the inventory rows of the requirement's ingredient that
// resolve to the same unit. A row without a unit is taken to be in the
// recipe's unit.
func stockFor(req Requirement, data *masterData) (float64, string) {
	var profile *types.PackagingProfile
	if p, ok := data.packaging[req.Key]; ok {
		profile = &p
	}

	total := 0.0
	vendor := ""
	for _, row := range data.stock[req.Key] {
		qty, unit := row.Quantity, req.Unit
		if row.Unit != "" {
			qty, unit = units.ResolveAgainstPackaging(row.Quantity, row.Unit, profile)
		}
		if unit != req.Unit || !isFinite(qty) {
			continue
		}
		total += qty
		if vendor == "" {
			vendor = row.Vendor
		}
	}
	return total, vendor
}

// orderUnit picks the label an ingredient is ordered in: a user override,
// then the price sheet, then the packaging master, then the default.
func orderUnit(key string, data *masterData) string {
	if u, ok := data.overrides[key]; ok && u != "" {
		return u
	}
	if p, ok := data.prices[key]; ok && p.Unit != "" {
		return p.Unit
	}
	if p, ok := data.packaging[key]; ok && p.PacketUnit != "" {
		return p.PacketUnit
	}
	return units.DefaultOrderUnit
}

// sortItems orders by vendor, items without a vendor last, then by name.
func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		vi, vj := items[i].Vendor, items[j].Vendor
		if vi != vj {
			if vi == "" || vj == "" {
				return vj == ""
			}
			return vi < vj
		}
		return items[i].Name < items[j].Name
	})
}
