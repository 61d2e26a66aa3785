package service

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/foodgram-project/backend/internal/model"
)

// CartService owns favorites, the shopping cart and the aggregated
// purchase list.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// ShoppingItem is one aggregated line of the purchase list.
type ShoppingItem struct {
	Name  string
	Unit  string
	Total int
}

// AddFavorite marks the recipe as liked. A duplicate add is a domain
// conflict; the unique constraint catches the concurrent case.
func (s *CartService) AddFavorite(ctx context.Context, userID, recipeID uint) (*model.Recipe, error) {
	return s.addRelation(ctx, userID, recipeID, &model.Favorite{}, ErrAlreadyFavorited)
}

// RemoveFavorite deletes the mark; removing an absent one is reported,
// not silently accepted.
func (s *CartService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	return s.removeRelation(ctx, userID, recipeID, &model.Favorite{}, ErrNotFavorited)
}

// AddToCart puts the recipe into the user's shopping cart.
func (s *CartService) AddToCart(ctx context.Context, userID, recipeID uint) (*model.Recipe, error) {
	return s.addRelation(ctx, userID, recipeID, &model.Purchase{}, ErrAlreadyInCart)
}

// RemoveFromCart takes the recipe out of the shopping cart.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, recipeID uint) error {
	return s.removeRelation(ctx, userID, recipeID, &model.Purchase{}, ErrNotInCart)
}

// Aggregate sums ingredient amounts across every recipe in the user's
// cart. Lines are merged by (name, measurement unit) rather than by
// ingredient id, so identically named rows with the same unit collapse
// into one output line. Sorted by total descending, name ascending on
// ties.
func (s *CartService) Aggregate(ctx context.Context, userID uint) ([]ShoppingItem, error) {
	type line struct {
		Name            string
		MeasurementUnit string
		Amount          int
	}

	var lines []line
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name, ingredients.measurement_unit, recipe_ingredients.amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN purchases ON purchases.recipe_id = recipe_ingredients.recipe_id").
		Where("purchases.user_id = ?", userID).
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}

	type key struct {
		name string
		unit string
	}
	totals := make(map[key]int, len(lines))
	for _, l := range lines {
		totals[key{l.Name, l.MeasurementUnit}] += l.Amount
	}

	items := make([]ShoppingItem, 0, len(totals))
	for k, total := range totals {
		items = append(items, ShoppingItem{Name: k.name, Unit: k.unit, Total: total})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Total != items[j].Total {
			return items[i].Total > items[j].Total
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// Lines formats aggregated items for the rendered document.
func Lines(items []ShoppingItem) []string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("• %s (%s) - %d", item.Name, item.Unit, item.Total)
	}
	return lines
}

func (s *CartService) addRelation(ctx context.Context, userID, recipeID uint, relation interface{}, conflict error) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		return nil, err
	}

	var count int64
	err := s.db.WithContext(ctx).Model(relation).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, conflict
	}

	switch relation.(type) {
	case *model.Favorite:
		err = s.db.WithContext(ctx).Create(&model.Favorite{UserID: userID, RecipeID: recipeID}).Error
	case *model.Purchase:
		err = s.db.WithContext(ctx).Create(&model.Purchase{UserID: userID, RecipeID: recipeID}).Error
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, conflict
		}
		return nil, err
	}
	return &recipe, nil
}

func (s *CartService) removeRelation(ctx context.Context, userID, recipeID uint, relation interface{}, absent error) error {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(relation)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return absent
	}
	return nil
}
