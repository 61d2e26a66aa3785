package model

// Favorite marks a recipe as liked by a user. Pure relationship row;
// the unique pair constraint is the safety net for concurrent adds.
type Favorite struct {
	ID uint `gorm:"primarykey" json:"id"`
	Timestamps
	UserID   uint `gorm:"not null;uniqueIndex:idx_user_favorite" json:"user"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_user_favorite" json:"recipe"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// Purchase puts a recipe into a user's shopping cart.
type Purchase struct {
	ID uint `gorm:"primarykey" json:"id"`
	Timestamps
	UserID   uint `gorm:"not null;uniqueIndex:idx_user_purchase" json:"user"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_user_purchase" json:"recipe"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Purchase) TableName() string {
	return "purchases"
}
