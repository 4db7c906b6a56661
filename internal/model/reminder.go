package model

import "time"

// ReminderSent marks that a doer was notified on a given date. The unique
// (doer, date) index is what makes the dispatch job safe to re-run within
// the same day.
type ReminderSent struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       string    `gorm:"index:idx_reminder_user_date,unique"`
	ReminderDate time.Time `gorm:"index:idx_reminder_user_date,unique"`
	CreatedAt    time.Time
}
