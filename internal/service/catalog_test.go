package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram-project/backend/internal/service"
	"github.com/foodgram-project/backend/internal/testhelpers"
)

func TestIngredientSearchRanking(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCatalogService(db)
	ctx := context.Background()

	testhelpers.CreateIngredient(t, db, "sea salt", "g")
	testhelpers.CreateIngredient(t, db, "salt", "g")
	testhelpers.CreateIngredient(t, db, "salted butter", "g")
	testhelpers.CreateIngredient(t, db, "pepper", "g")

	results, err := svc.Ingredients(ctx, "salt")
	require.NoError(t, err)

	// Prefix matches come before substring matches, alphabetical
	// within each group.
	require.Len(t, results, 3)
	assert.Equal(t, "salt", results[0].Name)
	assert.Equal(t, "salted butter", results[1].Name)
	assert.Equal(t, "sea salt", results[2].Name)
}

func TestIngredientSearchEmptyQuery(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCatalogService(db)

	testhelpers.CreateIngredient(t, db, "salt", "g")
	testhelpers.CreateIngredient(t, db, "pepper", "g")

	results, err := svc.Ingredients(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestTagListingOrdered(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCatalogService(db)
	ctx := context.Background()

	testhelpers.CreateTag(t, db, "lunch")
	testhelpers.CreateTag(t, db, "breakfast")

	tags, err := svc.Tags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Name)
	assert.Equal(t, "lunch", tags[1].Name)

	tag, err := svc.Tag(ctx, tags[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "breakfast", tag.Slug)

	_, err = svc.Tag(ctx, 12345)
	assert.True(t, service.NotFound(err))
}
