package handlers

import (
	"time"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
	"github.com/oksasatya/go-social-api/internal/infrastructure/search"
)

// accountResponse is what a user sees about themselves.
type accountResponse struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Age            *int      `json:"age"`
	ProfilePicture *string   `json:"profile_picture"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// userResponse is the public face of a user, shown to everyone else.
type userResponse struct {
	ID             uint    `json:"id"`
	Username       string  `json:"username"`
	ProfilePicture *string `json:"profile_picture"`
}

type likeResponse struct {
	UserID uint `json:"user_id"`
}

type commentResponse struct {
	ID        uint         `json:"id"`
	PostID    uint         `json:"post_id"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	Author    userResponse `json:"author"`
}

type postResponse struct {
	ID         uint              `json:"id"`
	Content    *string           `json:"content"`
	ImageURL   *string           `json:"image_url"`
	CreatedAt  time.Time         `json:"created_at"`
	Author     userResponse      `json:"author"`
	Likes      []likeResponse    `json:"likes"`
	LikesCount int               `json:"likes_count"`
	Comments   []commentResponse `json:"comments"`
}

type profileResponse struct {
	User  userResponse   `json:"user"`
	Posts []postResponse `json:"posts"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type toggleResponse struct {
	Message    string `json:"message"`
	Liked      bool   `json:"liked"`
	LikesCount int64  `json:"likes_count"`
}

func toAccount(u *entity.User) accountResponse {
	return accountResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Age:            u.Age,
		ProfilePicture: u.ProfilePicture,
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt.UTC(),
	}
}

func toUser(u *entity.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture}
}

func toComment(c *entity.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.UTC(),
		Author:    toUser(&c.Author),
	}
}

func toPost(p *entity.Post) postResponse {
	out := postResponse{
		ID:         p.ID,
		Content:    p.Content,
		ImageURL:   p.ImageURL,
		CreatedAt:  p.CreatedAt.UTC(),
		Author:     toUser(&p.Author),
		Likes:      make([]likeResponse, 0, len(p.Likes)),
		LikesCount: len(p.Likes),
		Comments:   make([]commentResponse, 0, len(p.Comments)),
	}
	for _, l := range p.Likes {
		out.Likes = append(out.Likes, likeResponse{UserID: l.UserID})
	}
	for i := range p.Comments {
		out.Comments = append(out.Comments, toComment(&p.Comments[i]))
	}
	return out
}

func toPosts(posts []entity.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toPost(&posts[i]))
	}
	return out
}

// toSearchHits drops the indexed email before it leaves the server.
func toSearchHits(docs []search.UserDocument) []userResponse {
	out := make([]userResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, userResponse{ID: d.ID, Username: d.Username, ProfilePicture: d.ProfilePicture})
	}
	return out
}
