package mealplan

import (
	"strconv"
	"strings"
)

// Signature identifies an entry by content rather than by id. Two entries
// with equal signatures describe the same planned meal, whichever store
// minted their ids.
func Signature(e Entry) string {
	weight := ""
	if e.TotalWeight != nil {
		weight = formatNumber(*e.TotalWeight)
	}
	return strings.Join([]string{
		e.DateKey,
		e.RecipeID,
		e.MealType,
		e.Note,
		formatNumber(e.Multiplier),
		weight,
	}, "|")
}

// formatNumber renders the shortest exact form, so 1.0 and 1 agree.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
