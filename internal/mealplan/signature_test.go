package mealplan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignature(t *testing.T) {
	weight := 2000.0
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{
			name:  "multiplier scaled",
			entry: Entry{DateKey: "2024-05-03", RecipeID: "r1", MealType: "dinner", Multiplier: 1},
			want:  "2024-05-03|r1|dinner||1|",
		},
		{
			name:  "fractional multiplier keeps shortest form",
			entry: Entry{DateKey: "2024-05-03", RecipeID: "r1", MealType: "lunch", Note: "half", Multiplier: 0.5},
			want:  "2024-05-03|r1|lunch|half|0.5|",
		},
		{
			name:  "weight scaled",
			entry: Entry{DateKey: "2024-05-03", RecipeID: "bread", MealType: "dinner", Multiplier: 1, TotalWeight: &weight},
			want:  "2024-05-03|bread|dinner||1|2000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Signature(tt.entry))
		})
	}
}

func TestSignatureIgnoresIDAndCreationTime(t *testing.T) {
	a := Entry{ID: "local-1-abcdef12", DateKey: "2024-05-03", RecipeID: "r1", MealType: "dinner", Multiplier: 1, CreatedAt: time.Now()}
	b := a
	b.ID = "0b7c2a8e-0f3c-4d7e-9a55-6f4d8e1c2b3a"
	b.CreatedAt = time.Time{}
	assert.Equal(t, Signature(a), Signature(b))
}

func TestIsDurableID(t *testing.T) {
	assert.True(t, IsDurableID("0b7c2a8e-0f3c-4d7e-9a55-6f4d8e1c2b3a"))
	assert.False(t, IsDurableID("local-1714550400000-0b7c2a8e"))
	assert.False(t, IsDurableID("0b7c2a8e0f3c4d7e9a556f4d8e1c2b3a"))
	assert.False(t, IsDurableID(""))

	id := NewLocalID(time.UnixMilli(1714550400000))
	assert.False(t, IsDurableID(id))
	assert.Contains(t, id, "local-1714550400000-")
}

func TestNewEntryScalingPrecedence(t *testing.T) {
	now := time.Now()
	weight := 1500.0

	e := newEntry("id", "2024-05-03", "r", "", MealOptions{Multiplier: 3, TotalWeight: &weight}, now)
	assert.Equal(t, DefaultMealType, e.MealType)
	assert.Equal(t, 1.0, e.Multiplier)
	assert.True(t, e.WeightScaled())

	zero := 0.0
	e = newEntry("id", "2024-05-03", "r", "lunch", MealOptions{Multiplier: 3, TotalWeight: &zero}, now)
	assert.Equal(t, 3.0, e.Multiplier)
	assert.False(t, e.WeightScaled())

	e = newEntry("id", "2024-05-03", "r", "lunch", MealOptions{Multiplier: -2}, now)
	assert.Equal(t, 1.0, e.Multiplier)
}
