package model

import "time"

// Roles, lowest to highest privilege.
const (
	RoleUser        = "user"
	RoleAdmin       = "admin"
	RoleMasterAdmin = "master_admin"
)

// User is a doer identity that can log in and own checklist tasks.
type User struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex"`
	FullName     string
	PasswordHash string
	Role         string `gorm:"default:user"`
	IsActive     bool   `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user may view and filter other doers' tasks.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleMasterAdmin
}
