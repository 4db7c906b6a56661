package model

import "time"

// Session is a bearer token issued at login.
type Session struct {
	Token     string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	ExpiresAt time.Time
	CreatedAt time.Time
}
