package model

import "time"

// Task is a recurring checklist definition. StartDate is write-once: moving
// it after occurrences exist would rewrite history, so no update path exists.
type Task struct {
	ID          string `gorm:"primaryKey"`
	ReferenceNo string `gorm:"uniqueIndex"`
	Name        string
	DoerID      string `gorm:"index"`
	Department  string
	Frequency   string // D, 2D, W, 2W, M, Q, F, Y
	StartDate   time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
