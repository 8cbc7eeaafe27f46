package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Recipe is the stored recipe row. Ingredient lines live in JSON columns.
type Recipe struct {
	ID               string         `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
	UserID           string         `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Title            string         `gorm:"size:255;not null" json:"title"`
	Ingredients      datatypes.JSON `gorm:"not null;default:'[]'" json:"ingredients"`
	IngredientGroups datatypes.JSON `gorm:"not null;default:'[]'" json:"ingredient_groups"`
}
