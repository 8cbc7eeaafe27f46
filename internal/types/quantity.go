package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// Quantity can handle both string and number values for amounts
type Quantity float64

func (q *Quantity) UnmarshalJSON(data []byte) error {
	// Try to unmarshal as number first
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*q = Quantity(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*q = Quantity(ParseQuantity(str))
		return nil
	}

	if string(data) == "null" {
		*q = 0
		return nil
	}

	return fmt.Errorf("invalid quantity format: %s", string(data))
}

// Float returns the quantity as a float64.
func (q Quantity) Float() float64 {
	return float64(q)
}

var vulgarFractions = strings.NewReplacer(
	"½", " 1/2",
	"⅓", " 1/3",
	"⅔", " 2/3",
	"¼", " 1/4",
	"¾", " 3/4",
	"⅕", " 1/5",
	"⅛", " 1/8",
	"⁄", "/",
)

// ParseQuantity reads the amount written on a recipe line. It accepts
// decimals, full-width digits, fractions ("1/2", "½") and mixed numbers
// ("1 1/2", "1½"). Anything else, e.g. "適量", "nan" or "inf", counts as zero.
func ParseQuantity(raw string) float64 {
	s := strings.TrimSpace(vulgarFractions.Replace(width.Fold.String(raw)))
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return finite(v)
	}

	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		return parseFraction(fields[0])
	case 2:
		whole, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0
		}
		return finite(whole + parseFraction(fields[1]))
	}
	return 0
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseFraction(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return 0
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return finite(n / d)
}
