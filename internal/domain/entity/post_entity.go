package entity

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyPost    = errors.New("post must have content or an image")
	ErrEmptyComment = errors.New("comment content is required")
)

type Post struct {
	ID        uint `gorm:"primaryKey"`
	Content   *string
	ImageURL  *string
	CreatedAt time.Time `gorm:"not null;index"`
	AuthorID  uint      `gorm:"not null;index"`
	Author    User

	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Likes    []Like    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// Validate enforces that a post carries text, an image, or both.
// Whitespace-only content counts as absent.
func (p *Post) Validate() error {
	if p.Content != nil && strings.TrimSpace(*p.Content) != "" {
		return nil
	}
	if p.ImageURL != nil && strings.TrimSpace(*p.ImageURL) != "" {
		return nil
	}
	return ErrEmptyPost
}

type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	Content   string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	PostID    uint      `gorm:"not null;index"`
	AuthorID  uint      `gorm:"not null;index"`
	Author    User
}

// ValidateCommentContent rejects empty and whitespace-only comments.
func ValidateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyComment
	}
	return nil
}

// Like is unique per (post, user); the pair is toggled, never updated.
type Like struct {
	ID        uint      `gorm:"primaryKey"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user;index"`
	CreatedAt time.Time `gorm:"not null"`
}
