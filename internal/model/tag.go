package model

// Tag labels recipes and is addressed by its unique slug in filters.
type Tag struct {
	ID uint `gorm:"primarykey" json:"id"`
	Named
	Slug string `gorm:"size:50;uniqueIndex;not null" json:"slug"`
}
