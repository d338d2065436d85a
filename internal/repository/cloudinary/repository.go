package cloudinary

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/dev-react009/instaclone/config"
	"github.com/dev-react009/instaclone/internal/model"
)

type cloudinaryRepository struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func New(conf config.Cloudinary) (*cloudinaryRepository, error) {
	cld, err := cloudinary.NewFromParams(conf.CloudName, conf.APIKey, conf.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary.NewFromParams: %w", err)
	}

	return &cloudinaryRepository{
		cld:    cld,
		folder: conf.Folder,
	}, nil
}

// Save uploads the image in a single attempt and returns its secure URL.
func (cr *cloudinaryRepository) Save(ctx context.Context, upload model.Upload) (string, error) {
	res, err := cr.cld.Upload.Upload(ctx, upload.Body, uploader.UploadParams{
		Folder: cr.folder,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary returned no secure url")
	}
	return res.SecureURL, nil
}
