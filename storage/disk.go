package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskClient stores attachments under a local directory. The HTTP server
// exposes the directory as /attachments for public URL resolution.
type DiskClient struct {
	root    string
	baseURL string
}

func NewDiskClient(root, baseURL string) (*DiskClient, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create attachment dir %s: %w", root, err)
	}
	if baseURL == "" {
		baseURL = "/attachments"
	}
	return &DiskClient{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Root is the directory the HTTP layer serves as static files.
func (d *DiskClient) Root() string { return d.root }

func (d *DiskClient) Put(ctx context.Context, key, contentType string, size int64, r io.Reader) error {
	path, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, r)
	return err
}

func (d *DiskClient) Remove(ctx context.Context, keys []string) error {
	for _, key := range keys {
		path, err := d.path(key)
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (d *DiskClient) PublicURL(key string) string {
	return d.baseURL + "/" + key
}

// path refuses keys escaping the root directory.
func (d *DiskClient) path(key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	if cleaned == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid attachment key %q", key)
	}
	return filepath.Join(d.root, cleaned), nil
}
