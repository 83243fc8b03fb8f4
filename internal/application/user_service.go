package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
	repo "github.com/oksasatya/go-social-api/internal/domain/repository"
	"github.com/oksasatya/go-social-api/internal/infrastructure/search"
	"github.com/oksasatya/go-social-api/internal/infrastructure/storage"
	"github.com/oksasatya/go-social-api/internal/infrastructure/telemetry"
	"github.com/oksasatya/go-social-api/pkg/helpers"
)

const avatarFolder = "avatars"

// Upload is a file received from a client, not yet inspected.
type Upload struct {
	Filename string
	Body     io.Reader
}

type RegisterInput struct {
	Username       string
	Email          string
	Password       string
	Age            *int
	ProfilePicture *Upload
}

type Profile struct {
	User  *entity.User
	Posts []entity.Post
}

type UserService struct {
	Users          repo.UserRepository
	Posts          repo.PostRepository
	Auth           *AuthService
	Media          storage.Storage
	Index          search.UserIndex
	Metrics        *telemetry.Metrics
	Logger         logrus.FieldLogger
	MaxUploadBytes int64
}

func NewUserService(users repo.UserRepository, posts repo.PostRepository, auth *AuthService, media storage.Storage, index search.UserIndex, metrics *telemetry.Metrics, logger logrus.FieldLogger, maxUploadBytes int64) *UserService {
	if index == nil {
		index = search.Noop{}
	}
	return &UserService{
		Users:          users,
		Posts:          posts,
		Auth:           auth,
		Media:          media,
		Index:          index,
		Metrics:        metrics,
		Logger:         logger,
		MaxUploadBytes: maxUploadBytes,
	}
}

// Register validates uniqueness and the optional picture before anything
// is written, then stores the picture and the user.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if err := s.checkAvailable(ctx, in.Username, in.Email); err != nil {
		return nil, err
	}

	var media *storage.Media
	if in.ProfilePicture != nil {
		m, err := storage.SniffImage(in.ProfilePicture.Body, s.MaxUploadBytes)
		if err != nil {
			return nil, mediaError(err)
		}
		media = m
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Age:          in.Age,
		IsActive:     true,
	}
	if media != nil {
		ref, err := s.Media.Save(ctx, avatarFolder, in.ProfilePicture.Filename, media.ContentType, media.Reader())
		if err != nil {
			return nil, fmt.Errorf("store profile picture: %w", err)
		}
		u.ProfilePicture = &ref
	}

	if err := s.Users.Create(ctx, u); err != nil {
		if u.ProfilePicture != nil {
			s.discardMedia(ctx, *u.ProfilePicture)
		}
		if errors.Is(err, repo.ErrDuplicate) {
			// lost a race with a concurrent registration; report which field collided
			if cerr := s.checkAvailable(ctx, in.Username, in.Email); cerr != nil {
				return nil, cerr
			}
		}
		return nil, err
	}

	if err := s.Index.Index(ctx, u); err != nil {
		s.log().WithError(err).WithField("user_id", u.ID).Warn("es index failed")
	}
	s.Metrics.UserRegistered()
	s.log().WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")
	return u, nil
}

func (s *UserService) checkAvailable(ctx context.Context, username, email string) error {
	taken, err := s.Users.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}
	taken, err = s.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	return nil
}

// Login authenticates and issues an access token.
func (s *UserService) Login(ctx context.Context, username, password string) (AccessToken, error) {
	u, err := s.Auth.Authenticate(ctx, username, password)
	if err != nil {
		return AccessToken{}, err
	}
	return s.Auth.IssueToken(u)
}

// Me reloads the principal so the response reflects the stored row.
func (s *UserService) Me(ctx context.Context, principal *entity.User) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, principal.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	return u, err
}

func (s *UserService) Profile(ctx context.Context, username string) (*Profile, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	posts, err := s.Posts.ListByAuthor(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u, Posts: posts}, nil
}

// DeleteAccount removes the user and, through the cascade, everything it
// owns. Stored media and the search document are cleaned up afterwards.
func (s *UserService) DeleteAccount(ctx context.Context, principal *entity.User) error {
	refs, err := s.Posts.ImageRefsByAuthor(ctx, principal.ID)
	if err != nil {
		return err
	}
	if err := s.Users.Delete(ctx, principal.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if principal.ProfilePicture != nil && *principal.ProfilePicture != "" {
		refs = append(refs, *principal.ProfilePicture)
	}
	for _, ref := range refs {
		s.discardMedia(ctx, ref)
	}
	if err := s.Index.Delete(ctx, principal.ID); err != nil {
		s.log().WithError(err).WithField("user_id", principal.ID).Warn("es delete failed")
	}
	s.log().WithFields(logrus.Fields{"user_id": principal.ID, "media": len(refs)}).Info("account deleted")
	return nil
}

// Search returns matching users; an empty query matches nothing.
func (s *UserService) Search(ctx context.Context, q string, size int) ([]search.UserDocument, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []search.UserDocument{}, nil
	}
	return s.Index.Search(ctx, q, search.ClampSize(size))
}

func (s *UserService) discardMedia(ctx context.Context, ref string) {
	if err := s.Media.Delete(ctx, ref); err != nil {
		s.log().WithError(err).WithField("ref", ref).Warn("media cleanup failed")
	}
}

func (s *UserService) log() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}

// mediaError reports a rejected upload as ErrUnsupportedMedia and passes
// read failures through unchanged.
func mediaError(err error) error {
	if errors.Is(err, storage.ErrNotImage) || errors.Is(err, storage.ErrTooLarge) || errors.Is(err, storage.ErrEmpty) {
		return fmt.Errorf("%w: %v", ErrUnsupportedMedia, err)
	}
	return err
}
