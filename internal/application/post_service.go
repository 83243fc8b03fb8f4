package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
	repo "github.com/oksasatya/go-social-api/internal/domain/repository"
	"github.com/oksasatya/go-social-api/internal/infrastructure/storage"
	"github.com/oksasatya/go-social-api/internal/infrastructure/telemetry"
)

const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100

	postFolder = "posts"
)

type CreatePostInput struct {
	Content *string
	Image   *Upload
}

// ToggleResult is the state of a like after a toggle.
type ToggleResult struct {
	Liked      bool
	LikesCount int64
}

type PostService struct {
	Posts          repo.PostRepository
	Comments       repo.CommentRepository
	Likes          repo.LikeRepository
	Media          storage.Storage
	Metrics        *telemetry.Metrics
	Logger         logrus.FieldLogger
	MaxUploadBytes int64
}

func NewPostService(posts repo.PostRepository, comments repo.CommentRepository, likes repo.LikeRepository, media storage.Storage, metrics *telemetry.Metrics, logger logrus.FieldLogger, maxUploadBytes int64) *PostService {
	return &PostService{
		Posts:          posts,
		Comments:       comments,
		Likes:          likes,
		Media:          media,
		Metrics:        metrics,
		Logger:         logger,
		MaxUploadBytes: maxUploadBytes,
	}
}

// Create stores a post for author. The image is uploaded only after the
// post has been validated, and removed again if the insert fails.
func (s *PostService) Create(ctx context.Context, author *entity.User, in CreatePostInput) (*entity.Post, error) {
	p := &entity.Post{AuthorID: author.ID}
	if in.Content != nil && strings.TrimSpace(*in.Content) != "" {
		content := *in.Content
		p.Content = &content
	}
	if in.Image == nil {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	if in.Image != nil {
		media, err := storage.SniffImage(in.Image.Body, s.MaxUploadBytes)
		if err != nil {
			return nil, mediaError(err)
		}
		ref, err := s.Media.Save(ctx, postFolder, in.Image.Filename, media.ContentType, media.Reader())
		if err != nil {
			return nil, fmt.Errorf("store post image: %w", err)
		}
		p.ImageURL = &ref
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.Posts.Create(ctx, p); err != nil {
		if p.ImageURL != nil {
			s.discardMedia(ctx, *p.ImageURL)
		}
		return nil, err
	}
	s.Metrics.PostCreated()
	s.log().WithFields(logrus.Fields{"post_id": p.ID, "author_id": author.ID}).Debug("post created")
	return s.Get(ctx, p.ID)
}

// Feed lists posts newest first. limit defaults to DefaultFeedLimit and
// is capped at MaxFeedLimit.
func (s *PostService) Feed(ctx context.Context, limit, offset int) ([]entity.Post, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	posts, err := s.Posts.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []entity.Post{}
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id uint) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPostNotFound)
	}
	return p, nil
}

// Delete removes a post with its comments and likes. Only the author may.
func (s *PostService) Delete(ctx context.Context, principal *entity.User, id uint) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.AuthorID != principal.ID {
		return ErrForbidden
	}
	if err := s.Posts.Delete(ctx, id); err != nil {
		return notFound(err, ErrPostNotFound)
	}
	if p.ImageURL != nil && *p.ImageURL != "" {
		s.discardMedia(ctx, *p.ImageURL)
	}
	return nil
}

func (s *PostService) AddComment(ctx context.Context, author *entity.User, postID uint, content string) (*entity.Comment, error) {
	if err := entity.ValidateCommentContent(content); err != nil {
		return nil, err
	}
	c := &entity.Comment{PostID: postID, AuthorID: author.ID, Content: content}
	if err := s.Comments.Create(ctx, c); err != nil {
		return nil, notFound(err, ErrPostNotFound)
	}
	s.Metrics.CommentCreated()
	return c, nil
}

// ToggleLike adds the user's like to the post, or removes it if present.
func (s *PostService) ToggleLike(ctx context.Context, user *entity.User, postID uint) (ToggleResult, error) {
	liked, n, err := s.Likes.Toggle(ctx, postID, user.ID)
	if err != nil {
		return ToggleResult{}, notFound(err, ErrPostNotFound)
	}
	s.Metrics.LikeToggled(liked)
	return ToggleResult{Liked: liked, LikesCount: n}, nil
}

func (s *PostService) discardMedia(ctx context.Context, ref string) {
	if err := s.Media.Delete(ctx, ref); err != nil {
		s.log().WithError(err).WithField("ref", ref).Warn("media cleanup failed")
	}
}

func (s *PostService) log() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}

// notFound swaps repository.ErrNotFound for the domain-specific sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return sentinel
	}
	return err
}
