package model

import "time"

// Category groups assets (Computers, Furniture, ...). Assets reference it
// weakly: deleting a category leaves its assets in place.
type Category struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
