package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dev-react009/instaclone/config"
	"github.com/dev-react009/instaclone/internal/model"
)

type localRepository struct {
	dir string
	now func() time.Time
}

// New makes sure the upload directory exists.
func New(conf config.Local) (*localRepository, error) {
	dir, err := filepath.Abs(conf.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("filepath.Abs: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll: %w", err)
	}
	return &localRepository{dir: dir, now: time.Now}, nil
}

// Dir is the absolute upload directory.
func (lr *localRepository) Dir() string {
	return lr.dir
}

// Save writes the upload as <field>-<unix millis><ext> and returns that filename.
// A source name without an extension yields a name without one.
func (lr *localRepository) Save(ctx context.Context, upload model.Upload) (string, error) {
	stamp := lr.now().UnixMilli()
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		name := fileName(upload.Field, upload.Filename, stamp)
		dst, err := os.OpenFile(filepath.Join(lr.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			stamp++
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create file: %w", err)
		}

		if _, err := io.Copy(dst, upload.Body); err != nil {
			dst.Close()
			os.Remove(dst.Name())
			return "", fmt.Errorf("failed to write file: %w", err)
		}
		if err := dst.Close(); err != nil {
			os.Remove(dst.Name())
			return "", fmt.Errorf("failed to close file: %w", err)
		}
		return name, nil
	}
}

func fileName(field, original string, stamp int64) string {
	if field == "" {
		field = "image"
	}
	ext := filepath.Ext(filepath.Base(original))
	if ext == "." {
		ext = ""
	}
	return fmt.Sprintf("%s-%d%s", field, stamp, ext)
}
