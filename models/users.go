package models

import (
	"time"
)

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Nickname     string    `gorm:"size:60;uniqueIndex" json:"nickname"`
	Name         string    `gorm:"size:255" json:"name"`
	Password     string    `gorm:"size:255" json:"-"`
	Bio          string    `gorm:"type:text" json:"bio"`
	Location     string    `gorm:"size:255" json:"location"`
	ProfileImage string    `gorm:"size:255" json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary - краткая карточка пользователя для списков
type UserSummary struct {
	ID           int64  `json:"id"`
	Nickname     string `json:"nickname"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image"`
	Location     string `json:"location"`
}

// ExploreUser - кандидат из "возможно, вы знакомы" с числом общих друзей
type ExploreUser struct {
	UserSummary
	MutualCount int64 `json:"mutual_count"`
}

type UserTokens struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64  `gorm:"index:user_token_idx,unique" json:"user_id"`
	Token  string `gorm:"size:255;index:user_token_idx,unique" json:"token"`
}

func (UserTokens) TableName() string {
	return "user_tokens"
}
