package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"250", 250},
		{" 1.5 ", 1.5},
		{"２５０", 250},
		{"1/2", 0.5},
		{"1 1/2", 1.5},
		{"3/0", 0},
		{"適量", 0},
		{"", 0},
		{"1 2 3", 0},
		{"½", 0.5},
		{"1½", 1.5},
		{"２¼", 2.25},
		{"1⁄3", 1.0 / 3},
		{"nan", 0},
		{"NaN", 0},
		{"inf", 0},
		{"-Infinity", 0},
		{"1 inf/1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseQuantity(tt.raw), 1e-9)
		})
	}
}

func TestQuantityUnmarshalJSON(t *testing.T) {
	var lines []IngredientLine
	err := json.Unmarshal([]byte(`[
		{"name":"flour","quantity":600,"unit":"g"},
		{"name":"salt","quantity":"1/2","unit":"tsp"},
		{"name":"water","quantity":null,"unit":"ml"},
		{"name":"milk","quantity":"nan","unit":"ml"}
	]`), &lines)
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, 600.0, lines[0].Quantity.Float())
	assert.Equal(t, 0.5, lines[1].Quantity.Float())
	assert.Equal(t, 0.0, lines[2].Quantity.Float())
	assert.Equal(t, 0.0, lines[3].Quantity.Float())

	var q Quantity
	assert.Error(t, json.Unmarshal([]byte(`{"amount":1}`), &q))
}

func TestRecipeAllLinesPrefersGroups(t *testing.T) {
	flat := Recipe{Ingredients: []IngredientLine{{Name: "flour", Quantity: 600, Unit: "g"}}}
	assert.Len(t, flat.AllLines(), 1)

	grouped := Recipe{
		Ingredients: []IngredientLine{{Name: "flour"}, {Name: "butter"}},
		Groups: []IngredientGroup{
			{Name: "dough", Lines: []IngredientLine{{Name: "flour"}}},
			{Name: "topping", Lines: []IngredientLine{{Name: "butter"}}},
		},
	}
	lines := grouped.AllLines()
	assert.Len(t, lines, 2)
	assert.Equal(t, "butter", lines[1].Name)
}
