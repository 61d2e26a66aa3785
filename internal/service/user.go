package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/foodgram-project/backend/internal/model"
)

// UserService serves user listings and avatar management.
type UserService struct {
	db     *gorm.DB
	images *ImageService
}

func NewUserService(db *gorm.DB, images *ImageService) *UserService {
	return &UserService{db: db, images: images}
}

// List returns a page of users, newest first, plus the unpaginated
// count.
func (s *UserService) List(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	q := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var users []model.User
	if err := q.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

// Get retrieves a user by id.
func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateAvatar stores a new avatar image from a base64 data URI and
// returns its URL.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, dataURI string) (string, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return "", err
	}

	url, err := s.images.SaveDataURI(ctx, dataURI, "avatars")
	if err != nil {
		return "", err
	}

	if err := s.db.WithContext(ctx).Model(&user).Update("avatar_url", url).Error; err != nil {
		return "", err
	}
	return url, nil
}

// DeleteAvatar clears the avatar; clearing an unset avatar is a
// domain error rather than a silent success.
func (s *UserService) DeleteAvatar(ctx context.Context, userID uint) error {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return err
	}
	if user.AvatarURL == "" {
		return ErrNoAvatar
	}
	return s.db.WithContext(ctx).Model(&user).Update("avatar_url", "").Error
}
