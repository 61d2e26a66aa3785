package model

// Recipe is an authored dish with its ingredient amounts and tags.
// ShortLinkID is reassigned on every save and unique across recipes.
type Recipe struct {
	ID uint `gorm:"primarykey" json:"id"`
	Timestamps
	Named
	AuthorID    uint   `gorm:"not null;index" json:"author"`
	ImageURL    string `gorm:"size:255" json:"image"`
	Text        string `gorm:"type:text;not null" json:"text"`
	CookingTime int    `gorm:"not null" json:"cooking_time"`
	ShortLinkID string `gorm:"size:6;uniqueIndex;not null" json:"-"`

	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Tags        []Tag              `gorm:"many2many:recipe_tags" json:"-"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

// RecipeIngredient joins a recipe to an ingredient with its amount.
// A recipe lists each ingredient at most once.
type RecipeIngredient struct {
	ID           uint `gorm:"primarykey" json:"-"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"-"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"id"`
	Amount       int  `gorm:"not null" json:"amount"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
