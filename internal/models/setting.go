package models

import "time"

// Setting is a small key/value record kept next to the entity tables
type Setting struct {
	Key       string    `gorm:"primarykey" json:"key"`
	Value     []byte    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
