package model

// User is an account that can publish recipes and follow authors.
type User struct {
	ID uint `gorm:"primarykey" json:"id"`
	Timestamps
	Email        string `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username     string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName    string `gorm:"size:150;not null" json:"first_name"`
	LastName     string `gorm:"size:150;not null" json:"last_name"`
	AvatarURL    string `gorm:"size:255" json:"avatar"`
	PasswordHash string `gorm:"not null" json:"-"`
}

// Subscription links a follower to a followed author. The pair is
// unique and the check constraint keeps self-follows out even when a
// request slips past application validation.
type Subscription struct {
	ID uint `gorm:"primarykey" json:"id"`
	Timestamps
	UserID      uint `gorm:"not null;uniqueIndex:idx_user_following;check:chk_not_follow_self,user_id <> following_id" json:"user"`
	FollowingID uint `gorm:"not null;uniqueIndex:idx_user_following" json:"following"`

	User      User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Following User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}
