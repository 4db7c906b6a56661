package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"opsdesk/internal/model"
)

// CompletionRepository records occurrence completions. It performs no
// identity checks; the caller authorizes the actor before invoking it.
type CompletionRepository struct {
	db *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// MarkComplete inserts a completion row once. A duplicate call for the same
// (task, occurrence date) is a no-op: the original completer and timestamp
// stay untouched.
func (r *CompletionRepository) MarkComplete(ctx context.Context, taskID string, occurrenceDate time.Time, by string, at time.Time) error {
	c := model.Completion{
		TaskID:         taskID,
		OccurrenceDate: occurrenceDate,
		CompletedBy:    by,
		CompletedAt:    at,
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "task_id"}, {Name: "occurrence_date"}},
		DoNothing: true,
	}).Create(&c).Error; err != nil {
		return fmt.Errorf("mark complete: %w", err)
	}
	return nil
}

func (r *CompletionRepository) IsComplete(ctx context.Context, taskID string, occurrenceDate time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Completion{}).
		Where("task_id = ? AND occurrence_date = ?", taskID, occurrenceDate).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check completion: %w", err)
	}
	return count > 0, nil
}

func (r *CompletionRepository) ListAll(ctx context.Context) ([]model.Completion, error) {
	var completions []model.Completion
	if err := r.db.WithContext(ctx).Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}
