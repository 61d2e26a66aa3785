package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/foodgram-project/backend/internal/model"
	"github.com/foodgram-project/backend/internal/shortlink"
)

// shortLinkAttempts bounds the save retries after a short_link_id
// uniqueness violation. The existing set is re-read on every attempt,
// so a collision means another request won the race since our read.
const shortLinkAttempts = 5

const (
	shortLinkCachePrefix = "shortlink:"
	shortLinkCacheTTL    = time.Hour
)

// RecipeService handles recipe reads and transactional writes.
type RecipeService struct {
	db     *gorm.DB
	images *ImageService
	cache  *redis.Client
	domain string
}

func NewRecipeService(db *gorm.DB, images *ImageService, cache *redis.Client, domain string) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
		cache:  cache,
		domain: domain,
	}
}

// IngredientAmount is one ingredient line of a write payload.
type IngredientAmount struct {
	ID     uint
	Amount int
}

// RecipeInput is the validated write payload for create and update.
// Image is a base64 data URI; it may be empty on update, in which case
// the stored image is kept.
type RecipeInput struct {
	Name        string
	Text        string
	CookingTime int
	Image       string
	TagIDs      []uint
	Ingredients []IngredientAmount
}

// RecipeFilters narrows List. Favorited and InCart only apply when
// ViewerID is set.
type RecipeFilters struct {
	AuthorID  *uint
	TagSlugs  []string
	Favorited bool
	InCart    bool
	ViewerID  *uint
	Offset    int
	Limit     int
}

// Create stores a recipe with its ingredient amounts and tags in one
// transaction, assigning a fresh short-link identifier.
func (s *RecipeService) Create(ctx context.Context, authorID uint, in RecipeInput) (*model.Recipe, error) {
	tags, err := s.tagsByID(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}
	if err := s.checkIngredients(ctx, in.Ingredients); err != nil {
		return nil, err
	}

	imageURL, err := s.images.SaveDataURI(ctx, in.Image, "recipes")
	if err != nil {
		return nil, err
	}

	var recipeID uint
	err = s.saveWithShortLink(ctx, func(tx *gorm.DB, linkID string) error {
		recipe := model.Recipe{
			Named:       model.Named{Name: in.Name},
			AuthorID:    authorID,
			ImageURL:    imageURL,
			Text:        in.Text,
			CookingTime: in.CookingTime,
			ShortLinkID: linkID,
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Append(&tags); err != nil {
			return err
		}
		if err := s.replaceIngredients(tx, recipe.ID, in.Ingredients); err != nil {
			return err
		}
		recipeID = recipe.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipeID)
}

// Update replaces the recipe's fields and wholesale-replaces its
// ingredient and tag associations. The short-link identifier is
// reassigned, matching create/save semantics.
func (s *RecipeService) Update(ctx context.Context, recipeID, authorID uint, in RecipeInput) (*model.Recipe, error) {
	tags, err := s.tagsByID(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}
	if err := s.checkIngredients(ctx, in.Ingredients); err != nil {
		return nil, err
	}

	imageURL := ""
	if in.Image != "" {
		imageURL, err = s.images.SaveDataURI(ctx, in.Image, "recipes")
		if err != nil {
			return nil, err
		}
	}

	err = s.saveWithShortLink(ctx, func(tx *gorm.DB, linkID string) error {
		var recipe model.Recipe
		if err := tx.First(&recipe, recipeID).Error; err != nil {
			return err
		}
		if recipe.AuthorID != authorID {
			return ErrNotAuthor
		}

		updates := map[string]interface{}{
			"name":          in.Name,
			"text":          in.Text,
			"cooking_time":  in.CookingTime,
			"short_link_id": linkID,
		}
		if imageURL != "" {
			updates["image_url"] = imageURL
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Model(&recipe).Association("Tags").Replace(&tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return s.replaceIngredients(tx, recipe.ID, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipeID)
}

// Get retrieves a recipe with its author, tags and ingredient lines.
func (s *RecipeService) Get(ctx context.Context, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	err := s.preload(s.db.WithContext(ctx)).First(&recipe, id).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Delete removes a recipe together with its association rows.
func (s *RecipeService) Delete(ctx context.Context, id, authorID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe model.Recipe
		if err := tx.First(&recipe, id).Error; err != nil {
			return err
		}
		if recipe.AuthorID != authorID {
			return ErrNotAuthor
		}

		if err := tx.Where("recipe_id = ?", id).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&model.Purchase{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Recipe{}, id).Error
	})
}

// List returns a page of recipes plus the unpaginated count.
func (s *RecipeService) List(ctx context.Context, f RecipeFilters) ([]model.Recipe, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.Recipe{})

	if f.AuthorID != nil {
		q = q.Where("author_id = ?", *f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if f.ViewerID != nil {
		if f.Favorited {
			q = q.Where("recipes.id IN (?)", s.db.Table("favorites").
				Select("recipe_id").Where("user_id = ?", *f.ViewerID))
		}
		if f.InCart {
			q = q.Where("recipes.id IN (?)", s.db.Table("purchases").
				Select("recipe_id").Where("user_id = ?", *f.ViewerID))
		}
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var recipes []model.Recipe
	q = q.Order("created_at DESC, id DESC")
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if err := s.preload(q).Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}

// ByAuthor returns the author's recipes, newest first. A limit of 0
// means no limit.
func (s *RecipeService) ByAuthor(ctx context.Context, authorID uint, limit int) ([]model.Recipe, error) {
	q := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var recipes []model.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountByAuthors returns recipe counts keyed by author id.
func (s *RecipeService) CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	type row struct {
		AuthorID uint
		Total    int64
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&model.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.AuthorID] = r.Total
	}
	return counts, nil
}

// ShortLink returns the public short URL for a recipe. Calling it
// repeatedly between saves yields the same identifier.
func (s *RecipeService) ShortLink(ctx context.Context, id uint) (string, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		return "", err
	}
	return shortlink.URL(s.domain, recipe.ShortLinkID), nil
}

// Resolve maps a short-link identifier to its recipe. Lookups are
// exact-match; stored longer identifiers never match shorter inputs.
func (s *RecipeService) Resolve(ctx context.Context, linkID string) (*model.Recipe, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, shortLinkCachePrefix+linkID).Result(); err == nil {
			if id, err := strconv.ParseUint(cached, 10, 64); err == nil {
				var recipe model.Recipe
				if err := s.db.WithContext(ctx).First(&recipe, uint(id)).Error; err == nil &&
					recipe.ShortLinkID == linkID {
					return &recipe, nil
				}
			}
		}
	}

	var recipe model.Recipe
	if err := s.db.WithContext(ctx).Where("short_link_id = ?", linkID).First(&recipe).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, shortLinkCachePrefix+linkID,
			strconv.FormatUint(uint64(recipe.ID), 10), shortLinkCacheTTL).Err()
	}
	return &recipe, nil
}

// Flags reports which of the given recipes the viewer has favorited
// and carted. Anonymous viewers get empty maps. One query per flag,
// scoped to the viewer and the listed recipes.
func (s *RecipeService) Flags(ctx context.Context, viewerID *uint, recipes []model.Recipe) (favorited, inCart map[uint]bool, err error) {
	favorited = make(map[uint]bool)
	inCart = make(map[uint]bool)
	if viewerID == nil || len(recipes) == 0 {
		return favorited, inCart, nil
	}

	ids := make([]uint, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}

	var favIDs []uint
	err = s.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", *viewerID, ids).
		Pluck("recipe_id", &favIDs).Error
	if err != nil {
		return nil, nil, err
	}
	for _, id := range favIDs {
		favorited[id] = true
	}

	var cartIDs []uint
	err = s.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("user_id = ? AND recipe_id IN ?", *viewerID, ids).
		Pluck("recipe_id", &cartIDs).Error
	if err != nil {
		return nil, nil, err
	}
	for _, id := range cartIDs {
		inCart[id] = true
	}
	return favorited, inCart, nil
}

// saveWithShortLink runs fn in a transaction with a freshly generated
// short-link identifier, retrying with a new identifier when the
// uniqueness constraint trips under concurrent saves.
func (s *RecipeService) saveWithShortLink(ctx context.Context, fn func(tx *gorm.DB, linkID string) error) error {
	var err error
	for attempt := 0; attempt < shortLinkAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var assigned []string
			if err := tx.Model(&model.Recipe{}).Pluck("short_link_id", &assigned).Error; err != nil {
				return err
			}
			existing := make(map[string]struct{}, len(assigned))
			for _, id := range assigned {
				existing[id] = struct{}{}
			}
			return fn(tx, shortlink.Generate(existing, shortlink.IDLength))
		})
		if !isUniqueViolation(err) {
			return err
		}
	}
	return err
}

func (s *RecipeService) preload(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").Preload("Tags").Preload("Ingredients.Ingredient")
}

func (s *RecipeService) tagsByID(ctx context.Context, ids []uint) ([]model.Tag, error) {
	var tags []model.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, ErrTagMissing
	}
	return tags, nil
}

func (s *RecipeService) checkIngredients(ctx context.Context, lines []IngredientAmount) error {
	ids := make([]uint, len(lines))
	for i, line := range lines {
		ids[i] = line.ID
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Ingredient{}).
		Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrIngredientMissing
	}
	return nil
}

func (s *RecipeService) replaceIngredients(tx *gorm.DB, recipeID uint, lines []IngredientAmount) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]model.RecipeIngredient, len(lines))
	for i, line := range lines {
		rows[i] = model.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.ID,
			Amount:       line.Amount,
		}
	}
	return tx.Create(&rows).Error
}

// NotFound reports whether err is the storage not-found signal.
func NotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
