package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-api/internal/application"
	"github.com/oksasatya/go-social-api/pkg/response"
)

type PostHandler struct {
	Posts  *application.PostService
	Logger logrus.FieldLogger
}

func NewPostHandler(posts *application.PostService, logger logrus.FieldLogger) *PostHandler {
	return &PostHandler{Posts: posts, Logger: logger}
}

type feedQuery struct {
	Limit  int `form:"limit" binding:"omitempty,gte=1,lte=100"`
	Offset int `form:"offset" binding:"omitempty,gte=0"`
}

type createPostRequest struct {
	Content *string `form:"content" binding:"omitempty,max=5000"`
}

type commentRequest struct {
	Content string `json:"content" binding:"max=2000"`
}

// Feed GET /api/posts?limit=&offset=
func (h *PostHandler) Feed(c *gin.Context) {
	var q feedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidPayload(c, err)
		return
	}
	posts, err := h.Posts.Feed(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	limit := q.Limit
	if limit == 0 {
		limit = application.DefaultFeedLimit
	}
	response.Success(c, http.StatusOK, toPosts(posts), "posts", response.Page{
		Limit:  limit,
		Offset: q.Offset,
		Count:  len(posts),
	})
}

// Create POST /api/posts (multipart: content, image)
func (h *PostHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req createPostRequest
	if err := c.ShouldBind(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	in := application.CreatePostInput{Content: req.Content}

	file, ok := optionalFile(c, "image")
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
		in.Image = &application.Upload{Filename: file.Filename, Body: f}
	}

	post, err := h.Posts.Create(c.Request.Context(), p, in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toPost(post), "post created", nil)
}

// Get GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	post, err := h.Posts.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPost(post), "post", nil)
}

// Delete DELETE /api/posts/:id (author only)
func (h *PostHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Posts.Delete(c.Request.Context(), p, id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "post deleted", nil)
}

// AddComment POST /api/posts/:id/comments {content}
func (h *PostHandler) AddComment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	comment, err := h.Posts.AddComment(c.Request.Context(), p, id, req.Content)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toComment(comment), "comment added", nil)
}

// ToggleLike POST /api/posts/:id/like
func (h *PostHandler) ToggleLike(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.Posts.ToggleLike(c.Request.Context(), p, id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	msg := "removed"
	if res.Liked {
		msg = "added"
	}
	response.Success(c, http.StatusOK, toggleResponse{
		Message:    msg,
		Liked:      res.Liked,
		LikesCount: res.LikesCount,
	}, "like "+msg, nil)
}
