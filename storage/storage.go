// Package storage abstracts the attachment object store. Production runs
// against any S3-compatible endpoint, development against a local directory.
package storage

import (
	"context"
	"fmt"
	"io"
)

// Client is the object-store port used for entry attachments. Keys are
// opaque to callers apart from the per-user prefix convention; public URL
// resolution is the store's business.
type Client interface {
	Put(ctx context.Context, key, contentType string, size int64, r io.Reader) error
	Remove(ctx context.Context, keys []string) error
	PublicURL(key string) string
}

const (
	BackendS3   = "s3"
	BackendDisk = "disk"
)

// Config : object storage configuration, a sub-struct of the service config.
type Config struct {
	Backend       string `envconfig:"STORAGE_BACKEND" default:"disk"`
	DiskPath      string `envconfig:"STORAGE_DISK_PATH" default:"./attachments"`
	S3Endpoint    string `envconfig:"STORAGE_S3_ENDPOINT"`
	S3AccessKey   string `envconfig:"STORAGE_S3_ACCESS_KEY"`
	S3SecretKey   string `envconfig:"STORAGE_S3_SECRET_KEY"`
	S3Bucket      string `envconfig:"STORAGE_S3_BUCKET" default:"entry-attachments"`
	S3UseSSL      bool   `envconfig:"STORAGE_S3_USE_SSL" default:"true"`
	PublicBaseURL string `envconfig:"STORAGE_PUBLIC_BASE_URL"`
}

// Open returns the client selected by the config.
func Open(ctx context.Context, c Config) (Client, error) {
	switch c.Backend {
	case BackendS3:
		return NewS3Client(ctx, c)
	case BackendDisk:
		return NewDiskClient(c.DiskPath, c.PublicBaseURL)
	default:
		return nil, fmt.Errorf("invalid storage backend %q, only s3 and disk are supported", c.Backend)
	}
}
