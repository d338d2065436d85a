package repository

import (
	"context"

	"github.com/dev-react009/instaclone/internal/model"
)

type PostRepository interface {
	// Create stores post and returns it with the store-assigned ID and creation time.
	Create(ctx context.Context, post *model.Post) (*model.Post, error)
	List(ctx context.Context) ([]*model.Post, error)
}

type ImageStore interface {
	// Save persists the uploaded bytes and returns a reference usable to fetch them back.
	Save(ctx context.Context, upload model.Upload) (string, error)
}
