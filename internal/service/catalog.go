package service

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodgram-project/backend/internal/model"
)

// CatalogService serves the read-only tag and ingredient reference
// data. Writes happen through migrations and the ingredient loader.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// Tags lists all tags ordered by name.
func (s *CatalogService) Tags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Tag retrieves a single tag.
func (s *CatalogService) Tag(ctx context.Context, id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Ingredients searches by name, case-insensitive. Prefix matches rank
// before substring matches, each group ordered by name.
func (s *CatalogService) Ingredients(ctx context.Context, name string) ([]model.Ingredient, error) {
	q := s.db.WithContext(ctx).Model(&model.Ingredient{})

	if name != "" {
		needle := strings.ToLower(name)
		q = q.Where("LOWER(name) LIKE ?", "%"+needle+"%").
			Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:  "CASE WHEN LOWER(name) LIKE ? THEN 0 ELSE 1 END, name",
				Vars: []interface{}{needle + "%"},
			}})
	} else {
		q = q.Order("id")
	}

	var ingredients []model.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// Ingredient retrieves a single ingredient.
func (s *CatalogService) Ingredient(ctx context.Context, id uint) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}
