// Package storage keeps uploaded media blobs on local disk or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"moodjournal/internal/config"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Storage stores blobs under flat keys.
type Storage interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns a link the client can fetch the blob from.
	URL(ctx context.Context, key string) string
}

// New builds the storage backend selected by STORAGE_DRIVER.
func New(c *config.Config) (Storage, error) {
	if c.StorageDriver == "s3" {
		slog.Info("initializing S3 storage", "bucket", c.S3Bucket, "region", c.S3Region, "endpoint", c.S3Endpoint)
		return NewS3Storage(context.Background(), S3Config{
			Region:     c.S3Region,
			Bucket:     c.S3Bucket,
			AccessKey:  c.S3AccessKey,
			SecretKey:  c.S3SecretKey,
			Endpoint:   c.S3Endpoint,
			PresignTTL: c.S3PresignTTL,
		})
	}
	slog.Info("initializing local storage", "dir", c.UploadDir)
	return NewLocalStorage(c.UploadDir, "/uploads")
}

// ObjectKey names a new upload: the owner id, a random uuid and the
// original extension.
func ObjectKey(userID int, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%d-%s%s", userID, uuid.NewString(), ext)
}

func validKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, `/\`) && key != "." && key != ".."
}

// LocalStorage writes blobs into a directory that the server exposes under
// urlPrefix.
type LocalStorage struct {
	dir       string
	urlPrefix string
}

func NewLocalStorage(dir, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Save(_ context.Context, key string, r io.Reader, _ string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}
	f, err := os.OpenFile(filepath.Join(s.dir, key), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("write file: %w", err)
	}
	return f.Close()
}

// Delete removes the blob. A missing file is not an error.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) URL(_ context.Context, key string) string {
	return s.urlPrefix + "/" + key
}
