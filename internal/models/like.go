package models

import "time"

// Like is the single, last-write-wins reaction record kept per post.
type Like struct {
	PostID    string    `json:"post_id" gorm:"primaryKey;size:36"`
	Liked     bool      `json:"liked"`
	Disliked  bool      `json:"disliked"`
	Actor     string    `json:"actor" gorm:"size:64"` // username of the last writer
	UpdatedAt time.Time `json:"updated_at"`
}

func (Like) TableName() string {
	return "post_likes"
}

// LikeRequest defines the request body for liking or disliking a post
type LikeRequest struct {
	Liked    bool `json:"liked"`
	Disliked bool `json:"disliked"`
}
