package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram-project/backend/config"
	"github.com/foodgram-project/backend/internal/model"
	"github.com/foodgram-project/backend/internal/service"
	"github.com/foodgram-project/backend/internal/shortlink"
	"github.com/foodgram-project/backend/internal/testhelpers"
)

const testImage = "data:image/png;base64,aGVsbG8="

func newRecipeService(t *testing.T, db *gorm.DB) *service.RecipeService {
	images := service.NewImageService(&config.Config{
		MediaDir: t.TempDir(),
		MediaURL: "/media/",
	}, nil)
	return service.NewRecipeService(db, images, nil, "localhost:8000")
}

func recipeInput(tagIDs []uint, lines []service.IngredientAmount) service.RecipeInput {
	return service.RecipeInput{
		Name:        "Borscht",
		Text:        "Simmer everything.",
		CookingTime: 90,
		Image:       testImage,
		TagIDs:      tagIDs,
		Ingredients: lines,
	}
}

func TestRecipeCreateRoundTrip(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRecipeService(t, db)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "author")
	tag := testhelpers.CreateTag(t, db, "dinner")
	beet := testhelpers.CreateIngredient(t, db, "beet", "g")
	cabbage := testhelpers.CreateIngredient(t, db, "cabbage", "g")

	recipe, err := svc.Create(ctx, author.ID, recipeInput(
		[]uint{tag.ID},
		[]service.IngredientAmount{{ID: beet.ID, Amount: 300}, {ID: cabbage.ID, Amount: 200}},
	))
	require.NoError(t, err)

	assert.Equal(t, "Borscht", recipe.Name)
	assert.Equal(t, author.ID, recipe.AuthorID)
	assert.Equal(t, "author", recipe.Author.Username)
	assert.Len(t, recipe.Tags, 1)
	assert.Len(t, recipe.Ingredients, 2)
	assert.Len(t, recipe.ShortLinkID, shortlink.IDLength)
	assert.True(t, strings.HasPrefix(recipe.ImageURL, "/media/recipes/"))

	favorited, inCart, err := svc.Flags(ctx, nil, []model.Recipe{*recipe})
	require.NoError(t, err)
	assert.False(t, favorited[recipe.ID])
	assert.False(t, inCart[recipe.ID])
}

func TestRecipeCreateUnknownReferences(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRecipeService(t, db)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "author")
	tag := testhelpers.CreateTag(t, db, "dinner")
	beet := testhelpers.CreateIngredient(t, db, "beet", "g")

	_, err := svc.Create(ctx, author.ID, recipeInput(
		[]uint{tag.ID + 100},
		[]service.IngredientAmount{{ID: beet.ID, Amount: 300}},
	))
	assert.ErrorIs(t, err, service.ErrTagMissing)

	_, err = svc.Create(ctx, author.ID, recipeInput(
		[]uint{tag.ID},
		[]service.IngredientAmount{{ID: beet.ID + 100, Amount: 300}},
	))
	assert.ErrorIs(t, err, service.ErrIngredientMissing)
}

func TestShortLinkStableBetweenSaves(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRecipeService(t, db)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "author")
	tag := testhelpers.CreateTag(t, db, "dinner")
	beet := testhelpers.CreateIngredient(t, db, "beet", "g")

	recipe, err := svc.Create(ctx, author.ID, recipeInput(
		[]uint{tag.ID},
		[]service.IngredientAmount{{ID: beet.ID, Amount: 300}},
	))
	require.NoError(t, err)

	first, err := svc.ShortLink(ctx, recipe.ID)
	require.NoError(t, err)
	second, err := svc.ShortLink(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, shortlink.URL("localhost:8000", recipe.ShortLinkID), first)
}

func TestUpdateReassignsShortLink(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRecipeService(t, db)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "author")
	tag := testhelpers.CreateTag(t, db, "dinner")
	lunch := testhelpers.CreateTag(t, db, "lunch")
	beet := testhelpers.CreateIngredient(t, db, "beet", "g")

	recipe, err := svc.Create(ctx, author.ID, recipeInput(
		[]uint{tag.ID},
		[]service.IngredientAmount{{ID: beet.ID, Amount: 300}},
	))
	require.NoError(t, err)
	oldLink := recipe.ShortLinkID

	in := recipeInput([]uint{lunch.ID}, []service.IngredientAmount{{ID: beet.ID, Amount: 150}})
	in.Name = "Cold borscht"
	in.Image = ""
	updated, err := svc.Update(ctx, recipe.ID, author.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "Cold borscht", updated.Name)
	assert.NotEqual(t, oldLink, updated.ShortLinkID)
	assert.Equal(t, recipe.ImageURL, updated.ImageURL)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "lunch", updated.Tags[0].Slug)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, 150, updated.Ingredients[0].Amount)

	// The old identifier no longer resolves.
	_, err = svc.Resolve(ctx, oldLink)
	assert.True(t, service.NotFound(err))
	resolved, err := svc.Resolve(ctx, updated.ShortLinkID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, resolved.ID)
}

func TestUpdateByNonAuthor(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRecipeService(t, db)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "author")
	other := testhelpers.CreateUser(t, db, "other")
	tag := testhelpers.CreateTag(t, db, "dinner")
	beet := testhelpers.CreateIngredient(t, db, "beet", "g")

	recipe, err := svc.Create(ctx, author.ID, recipeInput(
		[]uint{tag.ID},
		[]service.IngredientAmount{{ID: beet.ID, Amount: 300}},
	))
	require.NoError(t, err)

	_, err = svc.Update(ctx, recipe.ID, other.ID,
		recipeInput([]uint{tag.ID}, []service.IngredientAmount{{ID: beet.ID, Amount: 1}}))
	assert.ErrorIs(t, err, service.ErrNotAuthor)

	err = svc.Delete(ctx, recipe.ID, other.ID)
	assert.ErrorIs(t, err, service.ErrNotAuthor)
}

func TestDeleteRemovesRelations(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRecipeService(t, db)
	cart := service.NewCartService(db)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "author")
	fan := testhelpers.CreateUser(t, db, "fan")
	tag := testhelpers.CreateTag(t, db, "dinner")
	beet := testhelpers.CreateIngredient(t, db, "beet", "g")

	recipe, err := svc.Create(ctx, author.ID, recipeInput(
		[]uint{tag.ID},
		[]service.IngredientAmount{{ID: beet.ID, Amount: 300}},
	))
	require.NoError(t, err)

	_, err = cart.AddFavorite(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	_, err = cart.AddToCart(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, recipe.ID, author.ID))

	_, err = svc.Get(ctx, recipe.ID)
	assert.True(t, service.NotFound(err))

	var favorites, purchases, lines int64
	db.Model(&model.Favorite{}).Count(&favorites)
	db.Model(&model.Purchase{}).Count(&purchases)
	db.Model(&model.RecipeIngredient{}).Count(&lines)
	assert.Zero(t, favorites)
	assert.Zero(t, purchases)
	assert.Zero(t, lines)
}

func TestListFilters(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newRecipeService(t, db)
	cart := service.NewCartService(db)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "author")
	fan := testhelpers.CreateUser(t, db, "fan")
	dinner := testhelpers.CreateTag(t, db, "dinner")
	lunch := testhelpers.CreateTag(t, db, "lunch")
	beet := testhelpers.CreateIngredient(t, db, "beet", "g")

	var recipes []*model.Recipe
	for i, tag := range []*model.Tag{dinner, dinner, lunch} {
		in := recipeInput([]uint{tag.ID}, []service.IngredientAmount{{ID: beet.ID, Amount: 100}})
		in.Name = fmt.Sprintf("Recipe %d", i)
		r, err := svc.Create(ctx, author.ID, in)
		require.NoError(t, err)
		recipes = append(recipes, r)
	}

	byTag, count, err := svc.List(ctx, service.RecipeFilters{TagSlugs: []string{"dinner"}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Len(t, byTag, 2)

	_, err = cart.AddFavorite(ctx, fan.ID, recipes[2].ID)
	require.NoError(t, err)

	favs, count, err := svc.List(ctx, service.RecipeFilters{
		Favorited: true,
		ViewerID:  &fan.ID,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, favs, 1)
	assert.Equal(t, recipes[2].ID, favs[0].ID)

	// The favorite filter is ignored without a viewer.
	all, count, err := svc.List(ctx, service.RecipeFilters{Favorited: true})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.Len(t, all, 3)
}
