package s3

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"

	"github.com/dev-react009/instaclone/config"
	"github.com/dev-react009/instaclone/internal/model"
)

type s3Repository struct {
	uploader *s3manager.Uploader
	bucket   string
	prefix   string
}

// New builds an uploader. Static keys are used when given, otherwise the
// default AWS credential chain applies.
func New(conf config.S3) (*s3Repository, error) {
	awsConf := &aws.Config{
		Region: aws.String(conf.Region),
	}
	if conf.AccessKey != "" {
		awsConf.Credentials = credentials.NewStaticCredentials(conf.AccessKey, conf.SecretKey, "")
	}
	if conf.Endpoint != "" {
		awsConf.Endpoint = aws.String(conf.Endpoint)
		awsConf.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConf)
	if err != nil {
		return nil, fmt.Errorf("session.NewSession: %w", err)
	}

	return &s3Repository{
		uploader: s3manager.NewUploader(sess),
		bucket:   conf.Bucket,
		prefix:   conf.Prefix,
	}, nil
}

// Save uploads the image and returns the object location reported by S3.
func (sr *s3Repository) Save(ctx context.Context, upload model.Upload) (string, error) {
	input := &s3manager.UploadInput{
		Bucket: aws.String(sr.bucket),
		Key:    aws.String(objectKey(sr.prefix, upload.Filename)),
		Body:   upload.Body,
	}
	if upload.ContentType != "" {
		input.ContentType = aws.String(upload.ContentType)
	}

	out, err := sr.uploader.UploadWithContext(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return out.Location, nil
}

func objectKey(prefix, filename string) string {
	return path.Join(prefix, uuid.New().String()+filepath.Ext(filename))
}
