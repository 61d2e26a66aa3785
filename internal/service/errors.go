package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Domain-state conflicts. Handlers translate these into 400 responses
// with the specific reason, distinct from generic validation failures.
var (
	ErrAlreadyFavorited  = errors.New("recipe is already in favorites")
	ErrNotFavorited      = errors.New("recipe was not previously favorited")
	ErrAlreadyInCart     = errors.New("recipe is already in the shopping cart")
	ErrNotInCart         = errors.New("recipe was not previously added to the shopping cart")
	ErrSelfSubscription  = errors.New("subscribing to yourself is not allowed")
	ErrAlreadySubscribed = errors.New("already subscribed to this author")
	ErrNotSubscribed     = errors.New("was not subscribed to this author")
	ErrNotAuthor         = errors.New("only the author can modify this recipe")
	ErrNoAvatar          = errors.New("no avatar is set on this profile")
	ErrUserExists        = errors.New("user with this email or username already exists")
	ErrIngredientMissing = errors.New("ingredient does not exist")
	ErrTagMissing        = errors.New("tag does not exist")
)

// isUniqueViolation reports whether err comes from a storage-level
// uniqueness constraint. Pre-flight existence checks are an
// optimization; this is the safety mechanism under concurrent writes,
// so constraint errors from postgres and sqlite are both recognized.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
