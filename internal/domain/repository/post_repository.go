package repository

import (
	"context"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
)

// PostRepository loads posts with their author, likes and comments (each
// comment with its author) preloaded.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id uint) (*entity.Post, error)
	List(ctx context.Context, limit, offset int) ([]entity.Post, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]entity.Post, error)
	// ImageRefsByAuthor returns the non-empty image references of every
	// post written by authorID.
	ImageRefsByAuthor(ctx context.Context, authorID uint) ([]string, error)
	Delete(ctx context.Context, id uint) error
}

type CommentRepository interface {
	// Create inserts c under its PostID. ErrNotFound if the post is gone.
	Create(ctx context.Context, c *entity.Comment) error
}

type LikeRepository interface {
	// Toggle removes the (post, user) like if present, otherwise adds it.
	// It reports the resulting state and the post's like count.
	Toggle(ctx context.Context, postID, userID uint) (liked bool, count int64, err error)
}
