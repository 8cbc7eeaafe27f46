package models

import "time"

type InventoryItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Quantity  float64   `gorm:"not null;default:0" json:"quantity"`
	Unit      string    `gorm:"size:32" json:"unit"`
	Vendor    string    `gorm:"size:255" json:"vendor"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IngredientConversion is packaging master data shared by every user.
type IngredientConversion struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	IngredientName string    `gorm:"size:255;not null;uniqueIndex" json:"ingredient_name"`
	PacketSize     float64   `gorm:"not null;default:0" json:"packet_size"`
	PacketUnit     string    `gorm:"size:32" json:"packet_unit"`
	LastPrice      float64   `gorm:"not null;default:0" json:"last_price"`
	Vendor         string    `gorm:"size:255" json:"vendor"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UnitOverride pins the order unit a user wants for an ingredient.
type UnitOverride struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	UserID         string `gorm:"type:varchar(64);not null;uniqueIndex:idx_unit_overrides_user_name" json:"user_id"`
	IngredientName string `gorm:"size:255;not null;uniqueIndex:idx_unit_overrides_user_name" json:"ingredient_name"`
	Unit           string `gorm:"size:32;not null" json:"unit"`
}
