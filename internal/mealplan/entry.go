package mealplan

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// DefaultMealType is used when a meal is planned without a label.
const DefaultMealType = "dinner"

// DateLayout is the layout of every date key.
const DateLayout = "2006-01-02"

const localIDPrefix = "local-"

// ErrMissingOwner is returned when an operation is called without an owner.
// The accompanying result is always empty or unchanged.
var ErrMissingOwner = errors.New("mealplan: owner id is required")

// Entry is one planned meal on one calendar day.
type Entry struct {
	ID          string    `json:"id"`
	DateKey     string    `json:"date"`
	RecipeID    string    `json:"recipe_id"`
	MealType    string    `json:"meal_type"`
	Note        string    `json:"note"`
	Multiplier  float64   `json:"multiplier"`
	TotalWeight *float64  `json:"total_weight"`
	CreatedAt   time.Time `json:"created_at"`
}

// WeightScaled reports whether the meal is scaled to a target dough weight
// rather than by the multiplier.
func (e Entry) WeightScaled() bool {
	return e.TotalWeight != nil && *e.TotalWeight > 0
}

// Pending reports whether the entry has not been given a durable id yet.
func (e Entry) Pending() bool {
	return !IsDurableID(e.ID)
}

// PlanMap groups entries by date key, each day in creation order.
type PlanMap map[string][]Entry

// Len returns the number of entries across all days.
func (m PlanMap) Len() int {
	n := 0
	for _, entries := range m {
		n += len(entries)
	}
	return n
}

// Entries flattens the map ordered by date, then by position within the day.
func (m PlanMap) Entries() []Entry {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Entry, 0, m.Len())
	for _, k := range keys {
		out = append(out, m[k]...)
	}
	return out
}

// Clone returns a deep copy that can be modified independently.
func (m PlanMap) Clone() PlanMap {
	out := make(PlanMap, len(m))
	for k, entries := range m {
		cp := make([]Entry, len(entries))
		for i, e := range entries {
			cp[i] = e.clone()
		}
		out[k] = cp
	}
	return out
}

func (e Entry) clone() Entry {
	if e.TotalWeight != nil {
		w := *e.TotalWeight
		e.TotalWeight = &w
	}
	return e
}

// Group builds a PlanMap from entries, keeping their relative order.
func Group(entries []Entry) PlanMap {
	m := make(PlanMap)
	for _, e := range entries {
		m[e.DateKey] = append(m[e.DateKey], e)
	}
	return m
}

// MealOptions carries the optional fields of a newly planned meal. A
// positive TotalWeight wins over Multiplier.
type MealOptions struct {
	Note        string
	Multiplier  float64
	TotalWeight *float64
}

// Updates lists the fields of a planned meal to change. Nil fields are kept.
type Updates struct {
	DateKey          *string
	MealType         *string
	Note             *string
	Multiplier       *float64
	TotalWeight      *float64
	ClearTotalWeight bool
}

func (u Updates) apply(e Entry) Entry {
	if u.DateKey != nil && *u.DateKey != "" {
		e.DateKey = *u.DateKey
	}
	if u.MealType != nil {
		e.MealType = *u.MealType
		if e.MealType == "" {
			e.MealType = DefaultMealType
		}
	}
	if u.Note != nil {
		e.Note = *u.Note
	}
	if u.Multiplier != nil && *u.Multiplier > 0 {
		e.Multiplier = *u.Multiplier
	}
	switch {
	case u.ClearTotalWeight:
		e.TotalWeight = nil
	case u.TotalWeight != nil && *u.TotalWeight > 0:
		w := *u.TotalWeight
		e.TotalWeight = &w
	case u.TotalWeight != nil:
		e.TotalWeight = nil
	}
	return e
}

// IsDurableID reports whether id was issued by the authoritative store,
// which always uses the canonical 36 character UUID form.
func IsDurableID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// NewLocalID mints an id for an entry that has not reached the remote store.
func NewLocalID(now time.Time) string {
	return fmt.Sprintf("%s%d-%s", localIDPrefix, now.UnixMilli(), uuid.NewString()[:8])
}

// ValidDateKey reports whether key is a YYYY-MM-DD calendar date.
func ValidDateKey(key string) bool {
	_, err := time.Parse(DateLayout, key)
	return err == nil
}

func newEntry(id, dateKey, recipeID, mealType string, opts MealOptions, now time.Time) Entry {
	if mealType == "" {
		mealType = DefaultMealType
	}
	e := Entry{
		ID:         id,
		DateKey:    dateKey,
		RecipeID:   recipeID,
		MealType:   mealType,
		Note:       opts.Note,
		Multiplier: 1,
		CreatedAt:  now,
	}
	if opts.TotalWeight != nil && *opts.TotalWeight > 0 {
		w := *opts.TotalWeight
		e.TotalWeight = &w
	} else if opts.Multiplier > 0 {
		e.Multiplier = opts.Multiplier
	}
	return e
}
