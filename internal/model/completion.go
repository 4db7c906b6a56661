package model

import "time"

// Completion records that a task's occurrence was done. The unique index
// keeps at most one row per (task, occurrence date); later attempts are
// no-ops and never touch the original completer or timestamp.
type Completion struct {
	ID             uint      `gorm:"primaryKey"`
	TaskID         string    `gorm:"index:idx_completion_task_date,unique"`
	OccurrenceDate time.Time `gorm:"index:idx_completion_task_date,unique"`
	CompletedBy    string
	CompletedAt    time.Time
}
