// Package model defines the gorm entities of the recipe service.
package model

import "time"

// Field length and value bounds shared between validation and schema.
const (
	MaxNameLength         = 256
	MaxSlugLength         = 50
	MaxMeasurementUnit    = 20
	ShortLinkIDLength     = 6
	MinIngredientAmount   = 1
	MaxIngredientAmount   = 32000
	MinCookingTime        = 1
	MaxCookingTime        = 32000
)

// Timestamps carries the creation time shared by entities that are
// listed newest-first. Embedded by value instead of inherited.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
}

// Named carries the display name shared by Tag, Ingredient and Recipe.
type Named struct {
	Name string `gorm:"size:256;not null" json:"name"`
}
