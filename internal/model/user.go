package model

import "time"

// Roles form a closed set; anything else is rejected at registration.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an account that can authenticate and submit scans.
type User struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:128;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	Email        string `gorm:"size:256" json:"email"`
	Role         string `gorm:"size:32;not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the recognized roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
