package models

import "time"

// MealPlan is one planned meal as stored in the authoritative database.
type MealPlan struct {
	ID          string    `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      string    `gorm:"type:varchar(64);not null;index:idx_meal_plans_user_date,priority:1" json:"user_id"`
	PlanDate    string    `gorm:"type:varchar(10);not null;index:idx_meal_plans_user_date,priority:2" json:"plan_date"`
	RecipeID    string    `gorm:"type:varchar(64);not null;index" json:"recipe_id"`
	MealType    string    `gorm:"size:32;not null;default:'dinner'" json:"meal_type"`
	Note        string    `gorm:"type:text;not null;default:''" json:"note"`
	Multiplier  float64   `gorm:"not null;default:1" json:"multiplier"`
	TotalWeight *float64  `json:"total_weight"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// TableName returns the table name for the MealPlan model
func (MealPlan) TableName() string {
	return "meal_plans"
}
