package models

import "time"

// Document stores a whole collection as one JSON value. Version is bumped on
// every write and used for compare-and-swap.
type Document struct {
	Name      string    `gorm:"primaryKey;size:64" json:"name"`
	Data      string    `gorm:"type:text" json:"data"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name.
func (Document) TableName() string {
	return "collections"
}
