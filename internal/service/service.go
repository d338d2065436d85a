package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dev-react009/instaclone/internal/model"
	"github.com/dev-react009/instaclone/internal/repository"
)

// ErrNoImage is returned when a post is submitted without an image file.
var ErrNoImage = errors.New("No image file uploaded")

type Service struct {
	posts  repository.PostRepository
	images repository.ImageStore
	log    *logrus.Logger
}

func New(posts repository.PostRepository, images repository.ImageStore, log *logrus.Logger) *Service {
	return &Service{posts: posts, images: images, log: log}
}

type CreatePostInput struct {
	Author      string
	Location    string
	Description string
	Date        string
	Image       *model.Upload
}

// CreatePost stores the image, then the post record referencing it. The image
// is not removed if the record cannot be stored.
func (svc *Service) CreatePost(ctx context.Context, in CreatePostInput) (*model.Post, error) {
	if in.Image == nil {
		return nil, ErrNoImage
	}

	ref, err := svc.images.Save(ctx, *in.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	saved, err := svc.posts.Create(ctx, &model.Post{
		Author:      in.Author,
		Location:    in.Location,
		Description: in.Description,
		Image:       ref,
		Date:        in.Date,
	})
	if err != nil {
		svc.log.WithFields(logrus.Fields{"image": ref, "error": err}).Warn("post not saved, image left orphaned")
		return nil, fmt.Errorf("failed to save post: %w", err)
	}

	svc.log.WithFields(logrus.Fields{"id": saved.ID, "author": saved.Author}).Info("post created")
	return saved, nil
}

func (svc *Service) ListPosts(ctx context.Context) ([]*model.Post, error) {
	posts, err := svc.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	return posts, nil
}
