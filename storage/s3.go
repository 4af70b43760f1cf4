package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Client stores attachments in an S3-compatible bucket through minio-go.
type S3Client struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewS3Client(ctx context.Context, c Config) (*S3Client, error) {
	client, err := minio.New(c.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.S3AccessKey, c.S3SecretKey, ""),
		Secure: c.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, c.S3Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", c.S3Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, c.S3Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", c.S3Bucket, err)
		}
	}

	baseURL := c.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if c.S3UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, c.S3Endpoint, c.S3Bucket)
	}

	return &S3Client{
		client:  client,
		bucket:  c.S3Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *S3Client) Put(ctx context.Context, key, contentType string, size int64, r io.Reader) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *S3Client) Remove(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return err
		}
	}
	return nil
}

func (s *S3Client) PublicURL(key string) string {
	return s.baseURL + "/" + key
}
