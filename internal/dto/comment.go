package dto

import "time"

type CommentCreateRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// CommentResponse mirrors the original read API: the listing id is exposed
// as "bb".
type CommentResponse struct {
	ID        uint      `json:"id"`
	Bb        uint      `json:"bb"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
