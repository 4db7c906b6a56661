package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"opsdesk/internal/model"
)

// ReminderRepository tracks which doers were already notified on a date.
type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// MarkSent records the (doer, date) marker. Returns false when the marker
// already existed; a concurrent dispatch run got there first and the caller
// treats that as "already sent", not as an error.
func (r *ReminderRepository) MarkSent(ctx context.Context, userID string, day time.Time) (bool, error) {
	m := model.ReminderSent{UserID: userID, ReminderDate: day}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "reminder_date"}},
		DoNothing: true,
	}).Create(&m)
	if res.Error != nil {
		return false, fmt.Errorf("mark reminder sent: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SentOn returns the set of doer IDs already notified on the given date.
func (r *ReminderRepository) SentOn(ctx context.Context, day time.Time) (map[string]bool, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&model.ReminderSent{}).
		Where("reminder_date = ?", day).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list sent reminders: %w", err)
	}
	sent := make(map[string]bool, len(ids))
	for _, id := range ids {
		sent[id] = true
	}
	return sent, nil
}
