package units

import (
	"strings"

	"github.com/MARUGO-s/app-sub001/internal/types"
)

// Base units every measurable quantity converges to.
const (
	Gram       = "g"
	Millilitre = "ml"
)

// DefaultOrderUnit is used when nothing else names how an ingredient is bought.
const DefaultOrderUnit = "袋"

type unitDef struct {
	base   string
	factor float64
}

var unitTable = map[string]unitDef{
	// weight (base = g)
	"g":  {base: Gram, factor: 1},
	"kg": {base: Gram, factor: 1000},

	// volume (base = ml)
	"ml": {base: Millilitre, factor: 1},
	"cc": {base: Millilitre, factor: 1},
	"l":  {base: Millilitre, factor: 1000},
	"cl": {base: Millilitre, factor: 10},
}

var countUnits = map[string]bool{
	"個":   true,
	"本":   true,
	"袋":   true,
	"枚":   true,
	"パック": true,
	"缶":   true,
	"箱":   true,
	"包":   true,
	"pc":  true,
}

// fullWidth folds the full-width spellings of the measurable units only.
// Other tokens keep their characters.
var fullWidth = strings.NewReplacer(
	"ｋｇ", "kg",
	"ＫＧ", "kg",
	"ｍｌ", "ml",
	"ＭＬ", "ml",
	"ｃｃ", "cc",
	"ＣＣ", "cc",
	"ｃｌ", "cl",
	"ＣＬ", "cl",
	"ｇ", "g",
	"Ｇ", "g",
	"ｌ", "l",
	"Ｌ", "l",
)

// NormalizeToken returns the canonical spelling of a unit token.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	return strings.ToLower(fullWidth.Replace(token))
}

// IsMeasurable reports whether unit converts to grams or millilitres.
func IsMeasurable(unit string) bool {
	_, ok := unitTable[NormalizeToken(unit)]
	return ok
}

// IsCountUnit reports whether unit counts pieces or packs rather than content.
func IsCountUnit(unit string) bool {
	return countUnits[NormalizeToken(unit)]
}

// ToBaseUnit converts weights to grams and volumes to millilitres. Any other
// unit is returned untouched apart from surrounding whitespace.
func ToBaseUnit(qty float64, unit string) (float64, string) {
	if def, ok := unitTable[NormalizeToken(unit)]; ok {
		return qty * def.factor, def.base
	}
	return qty, strings.TrimSpace(unit)
}

// ResolveAgainstPackaging turns a count such as "2袋" into absolute content
// when the packaging profile says how much one pack holds.
func ResolveAgainstPackaging(qty float64, unit string, profile *types.PackagingProfile) (float64, string) {
	if profile != nil && IsCountUnit(unit) && profile.PacketSize > 0 && IsMeasurable(profile.PacketUnit) {
		return ToBaseUnit(qty*profile.PacketSize, profile.PacketUnit)
	}
	return ToBaseUnit(qty, unit)
}
