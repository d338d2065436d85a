package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dev-react009/instaclone/config"
	v1 "github.com/dev-react009/instaclone/internal/handlers/http/v1"
	"github.com/dev-react009/instaclone/internal/httpserver"
	"github.com/dev-react009/instaclone/internal/repository"
	"github.com/dev-react009/instaclone/internal/repository/cloudinary"
	"github.com/dev-react009/instaclone/internal/repository/local"
	"github.com/dev-react009/instaclone/internal/repository/minio"
	"github.com/dev-react009/instaclone/internal/repository/mongodb"
	"github.com/dev-react009/instaclone/internal/repository/postgres"
	"github.com/dev-react009/instaclone/internal/repository/s3"
	"github.com/dev-react009/instaclone/internal/service"
)

type closer interface {
	Close(ctx context.Context) error
}

// Run connects the post store before anything else; a failed connection
// aborts startup.
func Run(conf config.Config, log *logrus.Logger) error {
	ctx := context.Background()

	posts, err := newPostRepository(conf, log)
	if err != nil {
		return fmt.Errorf("error when setting up post repository: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := posts.Close(ctx); err != nil {
			log.WithError(err).Warn("failed to close post repository")
		}
	}()

	images, uploadDir, err := newImageStore(conf, log)
	if err != nil {
		return fmt.Errorf("error when setting up image store: %w", err)
	}

	svc := service.New(posts, images, log)

	handler, err := v1.New(svc, conf.HTTPServer, uploadDir, log)
	if err != nil {
		return fmt.Errorf("error when setting up handler: %w", err)
	}

	httpserver := httpserver.New(conf.HTTPServer, handler, log)

	return httpserver.Run(ctx)
}

type postRepository interface {
	repository.PostRepository
	closer
}

func newPostRepository(conf config.Config, log *logrus.Logger) (postRepository, error) {
	switch conf.Storage.PostStore {
	case config.PostStorePostgres:
		return postgres.New(conf.Postgres, log)
	default:
		return mongodb.New(conf.Mongo, log)
	}
}

// newImageStore also returns the directory local images are served from, if any.
func newImageStore(conf config.Config, log *logrus.Logger) (repository.ImageStore, string, error) {
	log.WithField("store", conf.Storage.ImageStore).Info("setting up image store")

	switch conf.Storage.ImageStore {
	case config.ImageStoreMinIO:
		store, err := minio.New(conf.MinIO, log)
		return store, "", err
	case config.ImageStoreS3:
		store, err := s3.New(conf.S3)
		return store, "", err
	case config.ImageStoreCloudinary:
		store, err := cloudinary.New(conf.Cloudinary)
		return store, "", err
	default:
		store, err := local.New(conf.Local)
		if err != nil {
			return nil, "", err
		}
		return store, store.Dir(), nil
	}
}
