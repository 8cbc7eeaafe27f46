package types

// IngredientLine is one measured ingredient of a recipe.
type IngredientLine struct {
	Name     string   `json:"name"`
	Quantity Quantity `json:"quantity"`
	Unit     string   `json:"unit"`
}

// IngredientGroup is a named section of a recipe ("dough", "topping").
type IngredientGroup struct {
	Name  string           `json:"name"`
	Lines []IngredientLine `json:"lines"`
}

// Recipe is the view of a recipe the shortage calculation needs.
type Recipe struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Ingredients []IngredientLine  `json:"ingredients"`
	Groups      []IngredientGroup `json:"groups,omitempty"`
}

// AllLines returns every ingredient line exactly once. When a recipe is split
// into groups the groups are authoritative; the flat list mirrors them.
func (r Recipe) AllLines() []IngredientLine {
	if len(r.Groups) == 0 {
		return r.Ingredients
	}
	var lines []IngredientLine
	for _, g := range r.Groups {
		lines = append(lines, g.Lines...)
	}
	return lines
}
