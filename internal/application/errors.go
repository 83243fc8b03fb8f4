package application

import (
	"errors"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
)

// Sentinel errors returned by the services. The HTTP layer maps them to
// status codes with errors.Is; anything else is an internal error.
var (
	ErrUsernameTaken    = errors.New("username already registered")
	ErrEmailTaken       = errors.New("email already registered")
	ErrEmptyPost        = entity.ErrEmptyPost
	ErrEmptyComment     = entity.ErrEmptyComment
	ErrUnsupportedMedia = errors.New("unsupported media")

	ErrPostNotFound = errors.New("post not found")
	ErrUserNotFound = errors.New("user not found")

	ErrUnauthenticated    = errors.New("could not validate credentials")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrForbidden          = errors.New("forbidden")
)
