package models

import "time"

// Post is a piece of user content. Content is stored in the description
// column; Owner is the author's username, joined from user_detail on read.
type Post struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty" gorm:"index;size:255"`
	Content   string    `json:"content" bson:"content" gorm:"column:description;type:text"`
	OwnerID   uint      `json:"-" bson:"-" gorm:"index;not null"`
	OwnerUser *User     `json:"-" bson:"-" gorm:"foreignKey:OwnerID"`
	Owner     string    `json:"owner" bson:"owner" gorm:"->;-:migration"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
	Title   string `json:"title,omitempty" validate:"omitempty,max=255"`
}

// UpdatePostRequest replaces the content of an existing post
type UpdatePostRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}
