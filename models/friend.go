package models

import "time"

// RelationState - производное состояние отношений между двумя пользователями.
// Состояния взаимоисключающие: дружба и заявка для одной пары сосуществовать не могут.
type RelationState string

const (
	RelationSelf       RelationState = "self"
	RelationFriend     RelationState = "friend"
	RelationRequester  RelationState = "requester"  // target отправил заявку viewer-у
	RelationRequesting RelationState = "requesting" // viewer отправил заявку target-у
	RelationStranger   RelationState = "stranger"
)

// Friend - подтвержденная дружба. Ребро ненаправленное, пара хранится
// нормализованной: UserID всегда меньше FriendID. Благодаря этому обычный
// составной уникальный индекс закрывает оба направления.
type Friend struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"uniqueIndex:friends_pair_key" json:"user_id"`
	FriendID  int64     `gorm:"uniqueIndex:friends_pair_key" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Friend) TableName() string {
	return "friends"
}

// FriendRequest - ожидающая заявка в друзья. Направленная: UserID - кому
// адресована, RequesterID - кто отправил.
type FriendRequest struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"uniqueIndex:friend_requests_pair_key" json:"user_id"`
	RequesterID int64     `gorm:"uniqueIndex:friend_requests_pair_key" json:"requester_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

// NormalizePair упорядочивает пару идентификаторов для хранения ребра
func NormalizePair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}
