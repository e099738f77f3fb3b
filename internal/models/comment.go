package models

import "time"

// Comment belongs to a post and is owned by the user who wrote it
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"-"`
	UserID    int64     `json:"-"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username"`
}
