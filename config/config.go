package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	PostStoreMongo    = "mongo"
	PostStorePostgres = "postgres"

	ImageStoreLocal      = "local"
	ImageStoreMinIO      = "minio"
	ImageStoreS3         = "s3"
	ImageStoreCloudinary = "cloudinary"
)

type Config struct {
	Log
	HTTPServer
	Storage
	Mongo
	Postgres
	Local
	MinIO
	S3
	Cloudinary
}

type Log struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"text"`
}

type HTTPServer struct {
	BindAddress     string        `env:"BIND_ADDRESS" env-default:""`
	BindPort        string        `env:"PORT" env-default:"8083"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" env-default:"60s"`
	StaticDir       string        `env:"STATIC_DIR" env-default:"./client/build"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" env-default:"*" env-separator:","`
}

// Storage selects the backends behind the post repository and the image store.
type Storage struct {
	PostStore  string `env:"POST_STORE" env-default:"mongo"`
	ImageStore string `env:"IMAGE_STORE" env-default:"local"`
}

type Mongo struct {
	URI        string        `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	DB         string        `env:"MONGO_DB" env-default:"instaclone"`
	Collection string        `env:"MONGO_COLLECTION" env-default:"posts"`
	Timeout    time.Duration `env:"MONGO_TIMEOUT" env-default:"10s"`
}

type Postgres struct {
	User       string        `env:"POSTGRES_USER" env-default:"postgres"`
	Pass       string        `env:"POSTGRES_PASSWORD" env-default:"postgres"`
	Host       string        `env:"POSTGRES_HOST" env-default:"localhost"`
	Port       string        `env:"POSTGRES_PORT" env-default:"5432"`
	DB         string        `env:"POSTGRES_DB" env-default:"instaclone"`
	Timeout    time.Duration `env:"POSTGRES_TIMEOUT" env-default:"5s"`
	Migrations string        `env:"POSTGRES_MIGRATIONS" env-default:"./migrations"`
}

type Local struct {
	UploadDir string `env:"UPLOAD_DIR" env-default:"./upload"`
}

type MinIO struct {
	Endpoint  string `env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	User      string `env:"MINIO_USER" env-default:"minioadmin"`
	Pass      string `env:"MINIO_PASSWORD" env-default:"minioadmin"`
	Bucket    string `env:"MINIO_BUCKET" env-default:"instaclone"`
	Secure    bool   `env:"MINIO_SECURE" env-default:"false"`
	Region    string `env:"MINIO_REGION" env-default:"us-east-1"`
	PublicURL string `env:"MINIO_PUBLIC_URL"`
}

type S3 struct {
	Region    string `env:"S3_REGION" env-default:"us-east-1"`
	Bucket    string `env:"S3_BUCKET"`
	AccessKey string `env:"S3_ACCESS_KEY_ID"`
	SecretKey string `env:"S3_SECRET_ACCESS_KEY"`
	Endpoint  string `env:"S3_ENDPOINT"`
	Prefix    string `env:"S3_PREFIX" env-default:"posts/"`
}

type Cloudinary struct {
	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
	Folder    string `env:"CLOUDINARY_FOLDER"`
}

func New(env string) (*Config, error) {
	conf := &Config{}

	if err := godotenv.Overload(env); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("godotenv.Overload: %v", err)
	}

	if err := cleanenv.ReadEnv(conf); err != nil {
		return nil, fmt.Errorf("cleanenv.Readenv: %v", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

// Validate checks the backend selection and the credentials it needs.
func (c *Config) Validate() error {
	switch c.Storage.PostStore {
	case PostStoreMongo, PostStorePostgres:
	default:
		return fmt.Errorf("unsupported POST_STORE %q", c.Storage.PostStore)
	}

	switch c.Storage.ImageStore {
	case ImageStoreLocal:
		if c.Local.UploadDir == "" {
			return errors.New("UPLOAD_DIR is required for the local image store")
		}
	case ImageStoreMinIO:
		if c.MinIO.Endpoint == "" || c.MinIO.Bucket == "" {
			return errors.New("MINIO_ENDPOINT and MINIO_BUCKET are required for the minio image store")
		}
	case ImageStoreS3:
		if c.S3.Bucket == "" {
			return errors.New("S3_BUCKET is required for the s3 image store")
		}
	case ImageStoreCloudinary:
		if c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "" {
			return errors.New("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required for the cloudinary image store")
		}
	default:
		return fmt.Errorf("unsupported IMAGE_STORE %q", c.Storage.ImageStore)
	}

	return nil
}
