package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
	repo "github.com/oksasatya/go-social-api/internal/domain/repository"
	"github.com/oksasatya/go-social-api/pkg/helpers"
)

// AccessToken is what a successful login hands back.
type AccessToken struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}

// AuthService issues bearer tokens and resolves them back to users.
type AuthService struct {
	Users  repo.UserRepository
	Tokens *helpers.TokenManager
	TTL    time.Duration
	Logger logrus.FieldLogger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users repo.UserRepository, tokens *helpers.TokenManager, ttl time.Duration, logger logrus.FieldLogger) *AuthService {
	return &AuthService{Users: users, Tokens: tokens, TTL: ttl, Logger: logger}
}

// Authenticate checks username and password. Unknown users and wrong
// passwords take the same path and return the same error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		// burn a comparable bcrypt round so timing does not reveal the miss
		helpers.CompareHashAndPassword(s.dummy(), password)
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueToken signs an access token whose subject is the username.
func (s *AuthService) IssueToken(u *entity.User) (AccessToken, error) {
	tok, exp, err := s.Tokens.Issue(u.Username, s.TTL)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return AccessToken{}, err
	}
	return AccessToken{Token: tok, TokenType: "bearer", ExpiresAt: exp}, nil
}

// ResolvePrincipal validates token and loads the user it names. Every
// failure, including a subject that no longer exists, is ErrUnauthenticated.
func (s *AuthService) ResolvePrincipal(ctx context.Context, token string) (*entity.User, error) {
	username, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := helpers.HashPassword("not-a-real-password")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
