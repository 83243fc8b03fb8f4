package search

import (
	"context"
	"time"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
)

// UserDocument is the indexed projection of a user.
type UserDocument struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewUserDocument(u *entity.User) UserDocument {
	return UserDocument{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt.UTC(),
	}
}

type UserIndex interface {
	Index(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, q string, size int) ([]UserDocument, error)
}

// Noop is used when no search cluster is configured.
type Noop struct{}

func (Noop) Index(context.Context, *entity.User) error { return nil }
func (Noop) Delete(context.Context, uint) error { return nil }
func (Noop) Search(context.Context, string, int) ([]UserDocument, error) {
	return []UserDocument{}, nil
}
