package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"opsdesk/internal/model"
)

// HolidayRepository manages per-year holiday sets.
type HolidayRepository struct {
	db *gorm.DB
}

func NewHolidayRepository(db *gorm.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

func (r *HolidayRepository) ListByYear(ctx context.Context, year int) ([]model.Holiday, error) {
	var holidays []model.Holiday
	if err := r.db.WithContext(ctx).Where("year = ?", year).
		Order("date ASC").Find(&holidays).Error; err != nil {
		return nil, err
	}
	return holidays, nil
}

// Upsert inserts the given holidays, updating the label when a (date, year)
// pair already exists. Used by the yearly bulk upload.
func (r *HolidayRepository) Upsert(ctx context.Context, holidays []model.Holiday) error {
	if len(holidays) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&holidays).Error; err != nil {
		return fmt.Errorf("upsert holidays: %w", err)
	}
	return nil
}
