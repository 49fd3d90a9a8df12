package repositories

import "errors"

// Sentinel errors shared by all repository implementations so handlers can
// map storage misses to 404s without string matching.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrChatNotFound         = errors.New("chat not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrNotificationNotFound = errors.New("notification not found")
)
