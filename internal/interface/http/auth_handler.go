package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-api/internal/application"
	"github.com/oksasatya/go-social-api/pkg/response"
)

type AuthHandler struct {
	Users  *application.UserService
	Logger logrus.FieldLogger
}

func NewAuthHandler(users *application.UserService, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Users: users, Logger: logger}
}

type registerRequest struct {
	Username string `form:"username" binding:"required,username"`
	Email    string `form:"email" binding:"required,email,max=255"`
	Password string `form:"password" binding:"required,max=1024"`
	Age      *int   `form:"age" binding:"omitempty,gte=0,lte=150"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/register (multipart: username, email, password, age, profile_picture)
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		invalidPayload(c, err)
		return
	}

	in := application.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	}
	file, ok := optionalFile(c, "profile_picture")
	if !ok {
		return
	}
	if file != nil {
		f, err := file.Open()
		if err != nil {
			writeError(c, h.Logger, err)
			return
		}
		defer func() { _ = f.Close() }()
		in.ProfilePicture = &application.Upload{Filename: file.Filename, Body: f}
	}

	u, err := h.Users.Register(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toAccount(u), "user registered", nil)
}

// Login POST /api/login {username, password}
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	tok, err := h.Users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, tokenResponse{
		AccessToken: tok.Token,
		TokenType:   tok.TokenType,
		ExpiresAt:   tok.ExpiresAt.UTC(),
	}, "login successful", nil)
}

// optionalFile returns the named upload, or nil when the field is absent.
// Non-multipart requests simply carry no file.
func optionalFile(c *gin.Context, field string) (*multipart.FileHeader, bool) {
	fh, err := c.FormFile(field)
	switch {
	case err == nil:
		return fh, true
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, true
	default:
		invalidPayload(c, err)
		return nil, false
	}
}
