package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/foodgram-project/backend/internal/model"
)

// SubscriptionService manages follower/followed relationships.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe follows an author. Self-subscription is rejected here in
// addition to the database check constraint; the unique pair
// constraint covers the concurrent duplicate case.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID uint) (*model.User, error) {
	if userID == authorID {
		return nil, ErrSelfSubscription
	}

	var author model.User
	if err := s.db.WithContext(ctx).First(&author, authorID).Error; err != nil {
		return nil, err
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ? AND following_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadySubscribed
	}

	sub := model.Subscription{UserID: userID, FollowingID: authorID}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}
	return &author, nil
}

// Unsubscribe unfollows an author; unfollowing someone never followed
// is a domain error.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	var author model.User
	if err := s.db.WithContext(ctx).First(&author, authorID).Error; err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND following_id = ?", userID, authorID).
		Delete(&model.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotSubscribed
	}
	return nil
}

// Subscriptions returns a page of followed authors, newest first, plus
// the unpaginated count.
func (s *SubscriptionService) Subscriptions(ctx context.Context, userID uint, offset, limit int) ([]model.User, int64, error) {
	base := s.db.WithContext(ctx).Model(&model.Subscription{}).Where("user_id = ?", userID)

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	q := s.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.following_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.created_at DESC, subscriptions.id DESC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var authors []model.User
	if err := q.Find(&authors).Error; err != nil {
		return nil, 0, err
	}
	return authors, count, nil
}

// Subscribed reports which of the given users the viewer follows.
// Anonymous viewers get an empty map.
func (s *SubscriptionService) Subscribed(ctx context.Context, viewerID *uint, userIDs []uint) (map[uint]bool, error) {
	subscribed := make(map[uint]bool)
	if viewerID == nil || len(userIDs) == 0 {
		return subscribed, nil
	}

	var followed []uint
	err := s.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ? AND following_id IN ?", *viewerID, userIDs).
		Pluck("following_id", &followed).Error
	if err != nil {
		return nil, err
	}
	for _, id := range followed {
		subscribed[id] = true
	}
	return subscribed, nil
}
