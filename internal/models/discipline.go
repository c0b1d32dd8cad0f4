package models

import (
	"strings"
	"time"
)

// DefaultColorTag is assigned when a discipline is created without a color
const DefaultColorTag = "#3B82F6"

// Discipline is a named category that tracked time is attributed to
type Discipline struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name      string `gorm:"not null;uniqueIndex" json:"name"`
	ColorTag  string `json:"color_tag"` // opaque display hint
	SortOrder int    `gorm:"not null;default:0;index" json:"sort_order"`

	// Relationships
	Sessions []Session `gorm:"foreignKey:DisciplineID" json:"-"`
}

// NormalizeName trims a discipline name and rejects empty results.
// Names stay case-sensitive: "Math" and "math" are different disciplines.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}
