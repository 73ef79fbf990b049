// Package filestorage stores uploaded files in an S3-compatible bucket.
package filestorage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"onghub/internal/config"
	"onghub/internal/core/files"
	"onghub/pkg/logger"
)

// Storage uploads, removes and presigns objects in one bucket.
type Storage struct {
	client        *minio.Client
	bucket        string
	presignExpiry time.Duration
	maxFileSize   int64
}

// New connects to the object store. The bucket is created when missing.
func New(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info(ctx, "bucket created", "bucket", cfg.Bucket)
	}

	return &Storage{
		client:        client,
		bucket:        cfg.Bucket,
		presignExpiry: cfg.PresignExpiry,
		maxFileSize:   cfg.MaxFileSize,
	}, nil
}

// check rejects files the gateway refuses to store.
func check(f files.File, kind files.Kind, maxSize int64) error {
	if kind == files.KindImage && !strings.HasPrefix(f.ContentType, "image/") {
		return &files.Error{Code: files.CodeInvalidImage, Err: fmt.Errorf("%s is %s", f.Name, f.ContentType)}
	}
	if maxSize > 0 && f.Size > maxSize {
		return &files.Error{Code: files.CodeTooLarge, Err: fmt.Errorf("%s is %d bytes", f.Name, f.Size)}
	}
	return nil
}

// objectKey places name under prefix with a random component so uploads
// never overwrite each other.
func objectKey(prefix, name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		base = "file"
	}
	return path.Join(prefix, uuid.NewString()+"-"+base)
}

// UploadFiles stores fs under prefix and returns their keys in order. Every
// file is checked before any upload starts.
func (s *Storage) UploadFiles(ctx context.Context, prefix string, fs []files.File, kind files.Kind) ([]string, error) {
	for _, f := range fs {
		if err := check(f, kind, s.maxFileSize); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(fs))
	for _, f := range fs {
		key := objectKey(prefix, f.Name)
		_, err := s.client.PutObject(ctx, s.bucket, key, f.Reader, f.Size, minio.PutObjectOptions{
			ContentType: f.ContentType,
		})
		if err != nil {
			if len(keys) > 0 {
				s.removeQuietly(ctx, keys)
			}
			return nil, &files.Error{Code: files.CodeUpload, Err: fmt.Errorf("put %s: %w", key, err)}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *Storage) removeQuietly(ctx context.Context, keys []string) {
	if err := s.DeleteFiles(ctx, keys); err != nil {
		logger.Warn(ctx, "cleanup of partial upload failed", "keys", keys, "error", err)
	}
}

// DeleteFiles removes keys. Missing objects are not an error.
func (s *Storage) DeleteFiles(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	objects := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		objects <- minio.ObjectInfo{Key: k}
	}
	close(objects)

	var errs []error
	for res := range s.client.RemoveObjects(ctx, s.bucket, objects, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("remove %s: %w", res.ObjectName, res.Err))
	}
	return errors.Join(errs...)
}

// GeneratePresignedURL returns a time-limited GET URL for key.
func (s *Storage) GeneratePresignedURL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.presignExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}
