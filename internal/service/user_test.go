package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram-project/backend/config"
	"github.com/foodgram-project/backend/internal/service"
	"github.com/foodgram-project/backend/internal/testhelpers"
)

func newUserService(t *testing.T, db *gorm.DB) *service.UserService {
	images := service.NewImageService(&config.Config{
		MediaDir: t.TempDir(),
		MediaURL: "/media/",
	}, nil)
	return service.NewUserService(db, images)
}

func TestAvatarLifecycle(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	user := testhelpers.CreateUser(t, db, "cook")

	err := svc.DeleteAvatar(ctx, user.ID)
	assert.ErrorIs(t, err, service.ErrNoAvatar)

	url, err := svc.UpdateAvatar(ctx, user.ID, "data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.NotEmpty(t, url)

	stored, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, url, stored.AvatarURL)

	require.NoError(t, svc.DeleteAvatar(ctx, user.ID))
	stored, err = svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.AvatarURL)
}

func TestUserListPagination(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		testhelpers.CreateUser(t, db, name)
	}

	users, count, err := svc.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.Len(t, users, 2)

	rest, _, err := svc.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
