package model

import "time"

// Location is a physical place an asset or scan can be attributed to.
type Location struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:256;not null" json:"name"`
	Building  string    `gorm:"size:128" json:"building"`
	Floor     string    `gorm:"size:32" json:"floor"`
	Room      string    `gorm:"size:128" json:"room"`
	CreatedAt time.Time `json:"created_at"`
}
