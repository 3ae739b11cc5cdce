package services

import "net/http"

// Error - ошибка бизнес-логики со стабильным машинным кодом.
// Code отдается клиенту как есть, Status - HTTP статус ответа.
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrInvalidTarget      = &Error{Code: "SELF_REFERENCE", Status: http.StatusBadRequest, Message: "cannot reference yourself"}
	ErrUserNotFound       = &Error{Code: "USER_NOT_FOUND", Status: http.StatusNotFound, Message: "user does not exist"}
	ErrAlreadyFriends     = &Error{Code: "ALREADY_FRIENDS", Status: http.StatusBadRequest, Message: "users are already friends"}
	ErrDuplicateRequest   = &Error{Code: "DUPLICATE_REQUEST", Status: http.StatusBadRequest, Message: "a pending request already exists between these users"}
	ErrRequestNotFound    = &Error{Code: "REQUEST_NOT_FOUND", Status: http.StatusNotFound, Message: "friend request not found"}
	ErrFriendshipNotFound = &Error{Code: "FRIENDSHIP_NOT_FOUND", Status: http.StatusNotFound, Message: "friendship not found"}
	ErrInvalidPagination  = &Error{Code: "INVALID_PAGE_OR_PAGESIZE", Status: http.StatusBadRequest, Message: "page and page size must be positive"}
	ErrPostNotFound       = &Error{Code: "POST_NOT_FOUND", Status: http.StatusNotFound, Message: "post not found"}
	ErrNotPostOwner       = &Error{Code: "NOT_POST_OWNER", Status: http.StatusForbidden, Message: "user does not own this post"}
	ErrEmptyPost          = &Error{Code: "EMPTY_POST", Status: http.StatusBadRequest, Message: "post needs content or media"}
	ErrNicknameTaken      = &Error{Code: "NICKNAME_TAKEN", Status: http.StatusBadRequest, Message: "nickname is already registered"}
	ErrInvalidCredentials = &Error{Code: "INVALID_CREDENTIALS", Status: http.StatusUnauthorized, Message: "invalid nickname or password"}
)
