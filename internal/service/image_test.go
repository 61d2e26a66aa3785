package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram-project/backend/config"
	"github.com/foodgram-project/backend/internal/service"
)

func TestValidImageDataURI(t *testing.T) {
	assert.True(t, service.ValidImageDataURI("data:image/png;base64,aGVsbG8="))
	assert.True(t, service.ValidImageDataURI("data:image/jpeg;base64,aGVsbG8="))
	assert.False(t, service.ValidImageDataURI("data:image/svg+xml;base64,aGVsbG8="))
	assert.False(t, service.ValidImageDataURI("data:image/png;base64,not base64!!"))
	assert.False(t, service.ValidImageDataURI("aGVsbG8="))
	assert.False(t, service.ValidImageDataURI(""))
}

func TestSaveDataURILocal(t *testing.T) {
	dir := t.TempDir()
	svc := service.NewImageService(&config.Config{
		MediaDir: dir,
		MediaURL: "/media/",
	}, nil)

	url, err := svc.SaveDataURI(context.Background(), "data:image/png;base64,aGVsbG8=", "recipes")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/recipes/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	name := strings.TrimPrefix(url, "/media/recipes/")
	data, err := os.ReadFile(filepath.Join(dir, "recipes", name))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestSaveDataURIRejectsBadPayload(t *testing.T) {
	svc := service.NewImageService(&config.Config{
		MediaDir: t.TempDir(),
		MediaURL: "/media/",
	}, nil)

	_, err := svc.SaveDataURI(context.Background(), "not a data uri", "recipes")
	assert.ErrorIs(t, err, service.ErrInvalidImage)
}
