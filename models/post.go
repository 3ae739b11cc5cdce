package models

import "time"

// Visibility - кто может видеть пост
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityFriends Visibility = "friends"
	VisibilityPrivate Visibility = "private"
)

// NormalizeVisibility приводит произвольное значение к допустимому.
// Нераспознанное значение превращается в friends.
func NormalizeVisibility(v string) Visibility {
	switch Visibility(v) {
	case VisibilityPublic, VisibilityFriends, VisibilityPrivate:
		return Visibility(v)
	}
	return VisibilityFriends
}

// Post - модель поста пользователя
type Post struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64      `gorm:"index" json:"user_id"`
	Content    string     `gorm:"type:text" json:"content"`
	Media      string     `gorm:"size:255" json:"media"`
	Visibility Visibility `gorm:"size:20" json:"visibility"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}

// FeedPost - пост в ленте с данными автора
type FeedPost struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	UserName     string     `json:"user_name"`
	UserNickname string     `json:"user_nickname"`
	ProfileImage string     `json:"profile_image,omitempty"`
	Content      string     `json:"content"`
	Media        string     `json:"media,omitempty"`
	Visibility   Visibility `json:"visibility"`
	CreatedAt    time.Time  `json:"created_at"`
}

// FeedResponse - ответ API для ленты
type FeedResponse struct {
	Posts   []FeedPost `json:"posts"`
	HasMore bool       `json:"has_more"`
}
