package minio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"github.com/dev-react009/instaclone/config"
	"github.com/dev-react009/instaclone/internal/model"
)

type minioRepository struct {
	cli    *minio.Client
	bucket string
	base   *url.URL
}

// New creates the client, makes sure the bucket exists and lets anonymous
// clients read its objects, since stored references are plain object URLs.
func New(conf config.MinIO, log *logrus.Logger) (*minioRepository, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.User, conf.Pass, ""),
		Secure: conf.Secure,
		Region: conf.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio.New: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := ensureBucket(ctx, client, conf.Bucket, log); err != nil {
		return nil, err
	}

	base := client.EndpointURL()
	if conf.PublicURL != "" {
		base, err = url.Parse(conf.PublicURL)
		if err != nil {
			return nil, fmt.Errorf("invalid MINIO_PUBLIC_URL: %w", err)
		}
	}

	return &minioRepository{
		cli:    client,
		bucket: conf.Bucket,
		base:   base,
	}, nil
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket string, log *logrus.Logger) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("client.BucketExists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("client.MakeBucket: %w", err)
		}
		log.WithField("bucket", bucket).Info("minio bucket created")
	}

	policy, err := readOnlyPolicy(bucket)
	if err != nil {
		return err
	}
	if err := client.SetBucketPolicy(ctx, bucket, policy); err != nil {
		return fmt.Errorf("client.SetBucketPolicy: %w", err)
	}
	return nil
}

type policyStatement struct {
	Effect    string              `json:"Effect"`
	Principal map[string][]string `json:"Principal"`
	Action    []string            `json:"Action"`
	Resource  []string            `json:"Resource"`
}

type bucketPolicy struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

// readOnlyPolicy grants anonymous s3:GetObject on every object in bucket.
func readOnlyPolicy(bucket string) (string, error) {
	data, err := json.Marshal(bucketPolicy{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: map[string][]string{"AWS": {"*"}},
			Action:    []string{"s3:GetObject"},
			Resource:  []string{fmt.Sprintf("arn:aws:s3:::%s/*", bucket)},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}
	return string(data), nil
}

// Save uploads the image under a random object name and returns its URL.
func (mr *minioRepository) Save(ctx context.Context, upload model.Upload) (string, error) {
	objectName := objectName(upload.Filename)

	size := upload.Size
	if size <= 0 {
		size = -1
	}
	_, err := mr.cli.PutObject(
		ctx,
		mr.bucket,
		objectName,
		upload.Body,
		size,
		minio.PutObjectOptions{ContentType: upload.ContentType},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return objectURL(mr.base, mr.bucket, objectName), nil
}

func objectName(filename string) string {
	return fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(filename))
}

func objectURL(base *url.URL, bucket, object string) string {
	u := *base
	u.Path = path.Join("/", u.Path, bucket, object)
	return u.String()
}
