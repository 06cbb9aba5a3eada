// Package objectstore implements the media store port on S3-compatible
// object storage via the MinIO client.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"eventfeed/internal/domain"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ClientAPI is the subset of the MinIO client the store uses. It exists so
// tests can substitute the network client.
type ClientAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// Store implements domain.MediaStore against one bucket. Photos and videos
// live under separate key prefixes.
type Store struct {
	client   ClientAPI
	endpoint string
	bucket   string
	useSSL   bool
}

var _ domain.MediaStore = (*Store)(nil)

// New creates a Store connected to the given endpoint and bucket.
func New(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}
	return &Store{client: client, endpoint: endpoint, bucket: bucket, useSSL: useSSL}, nil
}

// NewWithClient creates a Store over an existing client. Used by tests.
func NewWithClient(client ClientAPI, endpoint, bucket string, useSSL bool) *Store {
	return &Store{client: client, endpoint: endpoint, bucket: bucket, useSSL: useSSL}
}

// Upload stores the content under a fresh key and returns its reference.
func (s *Store) Upload(ctx context.Context, name string, content io.Reader, size int64, contentType string, kind domain.MediaKind) (domain.MediaRef, error) {
	key := objectKey(name, kind)
	_, err := s.client.PutObject(ctx, s.bucket, key, content, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return domain.MediaRef{}, fmt.Errorf("upload %s: %w", key, err)
	}
	return domain.MediaRef{ID: key, URL: s.objectURL(key)}, nil
}

// Delete removes the asset. A key that is already gone is not an error.
func (s *Store) Delete(ctx context.Context, id string, kind domain.MediaKind) error {
	err := s.client.RemoveObject(ctx, s.bucket, id, minio.RemoveObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// objectKey builds a unique key like photos/<uuid>.jpg, keeping the original
// file extension when there is one.
func objectKey(name string, kind domain.MediaKind) string {
	ext := strings.ToLower(path.Ext(name))
	return string(kind) + "s/" + uuid.NewString() + ext
}

func (s *Store) objectURL(key string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, key)
}
