package mealplan

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MARUGO-s/app-sub001/internal/models"
)

// Remote is the authoritative store for planned meals.
type Remote interface {
	List(ctx context.Context, ownerID string) ([]Entry, error)
	InsertMany(ctx context.Context, ownerID string, entries []Entry) error
	Update(ctx context.Context, ownerID, id string, updates Updates) error
	DeleteByIDs(ctx context.Context, ownerID string, ids []string) error
	DeleteRange(ctx context.Context, ownerID, start, end string) error
}

// Capabilities records which optional columns the meal_plans table has.
// Databases migrated before notes and weight scaling existed lack them.
type Capabilities struct {
	Note        bool
	TotalWeight bool
}

// ProbeCapabilities inspects the meal_plans table once.
func ProbeCapabilities(db *gorm.DB) Capabilities {
	m := db.Migrator()
	return Capabilities{
		Note:        m.HasColumn(&models.MealPlan{}, "note"),
		TotalWeight: m.HasColumn(&models.MealPlan{}, "total_weight"),
	}
}

// GormRemote stores planned meals in the meal_plans table.
type GormRemote struct {
	db   *gorm.DB
	caps Capabilities
}

// Ensure GormRemote implements Remote
var _ Remote = (*GormRemote)(nil)

// NewGormRemote creates a GormRemote, probing the schema once.
func NewGormRemote(db *gorm.DB) *GormRemote {
	caps := ProbeCapabilities(db)
	if !caps.Note || !caps.TotalWeight {
		log.Printf("meal_plans schema is missing optional columns (note=%t, total_weight=%t); writes will omit them",
			caps.Note, caps.TotalWeight)
	}
	return &GormRemote{db: db, caps: caps}
}

// Capabilities returns the result of the schema probe.
func (r *GormRemote) Capabilities() Capabilities {
	return r.caps
}

func (r *GormRemote) omitted() []string {
	var cols []string
	if !r.caps.Note {
		cols = append(cols, "note")
	}
	if !r.caps.TotalWeight {
		cols = append(cols, "total_weight")
	}
	return cols
}

// List returns the owner's meals ordered by date, then creation time.
func (r *GormRemote) List(ctx context.Context, ownerID string) ([]Entry, error) {
	var rows []models.MealPlan
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("plan_date asc").
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}

	entries := make([]Entry, len(rows))
	for i, row := range rows {
		entries[i] = entryFromRow(row)
	}
	return entries, nil
}

// InsertMany writes entries in one statement. Entries without a durable id
// are given a fresh one.
func (r *GormRemote) InsertMany(ctx context.Context, ownerID string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]models.MealPlan, len(entries))
	for i, e := range entries {
		rows[i] = rowFromEntry(ownerID, e)
	}

	query := r.db.WithContext(ctx)
	if cols := r.omitted(); len(cols) > 0 {
		query = query.Omit(cols...)
	}
	if err := query.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert meal plans: %w", err)
	}
	return nil
}

// Update changes the fields named in updates on the meal with the given id.
func (r *GormRemote) Update(ctx context.Context, ownerID, id string, updates Updates) error {
	fields := map[string]interface{}{}
	if updates.DateKey != nil && *updates.DateKey != "" {
		fields["plan_date"] = *updates.DateKey
	}
	if updates.MealType != nil {
		mealType := *updates.MealType
		if mealType == "" {
			mealType = DefaultMealType
		}
		fields["meal_type"] = mealType
	}
	if updates.Note != nil && r.caps.Note {
		fields["note"] = *updates.Note
	}
	if updates.Multiplier != nil && *updates.Multiplier > 0 {
		fields["multiplier"] = *updates.Multiplier
	}
	if r.caps.TotalWeight {
		switch {
		case updates.ClearTotalWeight:
			fields["total_weight"] = nil
		case updates.TotalWeight != nil && *updates.TotalWeight > 0:
			fields["total_weight"] = *updates.TotalWeight
		case updates.TotalWeight != nil:
			fields["total_weight"] = nil
		}
	}
	if len(fields) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).
		Model(&models.MealPlan{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to update meal plan %s: %w", id, err)
	}
	return nil
}

// DeleteByIDs removes the given meals.
func (r *GormRemote) DeleteByIDs(ctx context.Context, ownerID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", ownerID, ids).
		Delete(&models.MealPlan{}).Error; err != nil {
		return fmt.Errorf("failed to delete meal plans: %w", err)
	}
	return nil
}

// DeleteRange removes every meal dated between start and end inclusive.
func (r *GormRemote) DeleteRange(ctx context.Context, ownerID, start, end string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND plan_date >= ? AND plan_date <= ?", ownerID, start, end).
		Delete(&models.MealPlan{}).Error; err != nil {
		return fmt.Errorf("failed to delete meal plans between %s and %s: %w", start, end, err)
	}
	return nil
}

func rowFromEntry(ownerID string, e Entry) models.MealPlan {
	id := e.ID
	if !IsDurableID(id) {
		id = uuid.NewString()
	}
	row := models.MealPlan{
		ID:          id,
		UserID:      ownerID,
		PlanDate:    e.DateKey,
		RecipeID:    e.RecipeID,
		MealType:    e.MealType,
		Note:        e.Note,
		Multiplier:  e.Multiplier,
		TotalWeight: e.TotalWeight,
		CreatedAt:   e.CreatedAt,
	}
	if row.MealType == "" {
		row.MealType = DefaultMealType
	}
	if row.Multiplier <= 0 {
		row.Multiplier = 1
	}
	return row
}

func entryFromRow(row models.MealPlan) Entry {
	e := Entry{
		ID:          row.ID,
		DateKey:     row.PlanDate,
		RecipeID:    row.RecipeID,
		MealType:    row.MealType,
		Note:        row.Note,
		Multiplier:  row.Multiplier,
		TotalWeight: row.TotalWeight,
		CreatedAt:   row.CreatedAt,
	}
	if e.MealType == "" {
		e.MealType = DefaultMealType
	}
	if e.Multiplier <= 0 {
		e.Multiplier = 1
	}
	return e
}
