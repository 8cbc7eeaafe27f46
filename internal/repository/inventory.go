package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MARUGO-s/app-sub001/internal/models"
	"github.com/MARUGO-s/app-sub001/internal/types"
)

// InventoryRepository reads the owner's current stock.
type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) GetAll(ctx context.Context, ownerID string) ([]types.StockRow, error) {
	var items []models.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}

	rows := make([]types.StockRow, len(items))
	for i, item := range items {
		rows[i] = types.StockRow{
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Vendor:   item.Vendor,
		}
	}
	return rows, nil
}

// PackagingRepository reads the shared packaging master.
type PackagingRepository struct {
	db *gorm.DB
}

func NewPackagingRepository(db *gorm.DB) *PackagingRepository {
	return &PackagingRepository{db: db}
}

// GetAllConversions returns every packaging profile keyed by ingredient name.
func (r *PackagingRepository) GetAllConversions(ctx context.Context) (map[string]types.PackagingProfile, error) {
	var rows []models.IngredientConversion
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch ingredient conversions: %w", err)
	}

	profiles := make(map[string]types.PackagingProfile, len(rows))
	for _, row := range rows {
		profiles[row.IngredientName] = types.PackagingProfile{
			PacketSize: row.PacketSize,
			PacketUnit: row.PacketUnit,
			LastPrice:  row.LastPrice,
			Vendor:     row.Vendor,
		}
	}
	return profiles, nil
}

// UnitOverrideRepository reads and writes the order units users pinned.
type UnitOverrideRepository struct {
	db *gorm.DB
}

func NewUnitOverrideRepository(db *gorm.DB) *UnitOverrideRepository {
	return &UnitOverrideRepository{db: db}
}

// GetAll returns the owner's overrides keyed by ingredient name.
func (r *UnitOverrideRepository) GetAll(ctx context.Context, ownerID string) (map[string]string, error) {
	var rows []models.UnitOverride
	if err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch unit overrides: %w", err)
	}

	overrides := make(map[string]string, len(rows))
	for _, row := range rows {
		overrides[row.IngredientName] = row.Unit
	}
	return overrides, nil
}

// Set pins unit as the order unit for an ingredient, replacing any earlier choice.
func (r *UnitOverrideRepository) Set(ctx context.Context, ownerID, ingredientName, unit string) error {
	row := models.UnitOverride{UserID: ownerID, IngredientName: ingredientName, Unit: unit}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "ingredient_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"unit"}),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save unit override: %w", err)
	}
	return nil
}
