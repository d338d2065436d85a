package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dev-react009/instaclone/internal/model"
	"github.com/dev-react009/instaclone/internal/service"
)

const imageField = "image"

type postsHandler struct {
	svc *service.Service
	log *logrus.Logger
}

// list returns every stored post as a JSON array.
func (h *postsHandler) list(c *gin.Context) {
	posts, err := h.svc.ListPosts(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to list posts")
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, posts)
}

// create stores the uploaded image, then saves the post that references it.
func (h *postsHandler) create(c *gin.Context) {
	in := service.CreatePostInput{
		Author:      c.PostForm("author"),
		Location:    c.PostForm("location"),
		Description: c.PostForm("description"),
		Date:        c.PostForm("date"),
	}

	file, header, err := c.Request.FormFile(imageField)
	if err == nil {
		defer file.Close()
		in.Image = &model.Upload{
			Field:       imageField,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	}

	post, err := h.svc.CreatePost(c.Request.Context(), in)
	if errors.Is(err, service.ErrNoImage) {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("failed to create post")
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, post)
}
