package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskPutRemove(t *testing.T) {
	dir := t.TempDir()
	client, err := NewDiskClient(dir, "")
	require.NoError(t, err)

	ctx := context.Background()
	err = client.Put(ctx, "7/123_abc.png", "image/png", 5, strings.NewReader("hello"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "7", "123_abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "/attachments/7/123_abc.png", client.PublicURL("7/123_abc.png"))

	require.NoError(t, client.Remove(ctx, []string{"7/123_abc.png"}))
	_, err = os.ReadFile(filepath.Join(dir, "7", "123_abc.png"))
	assert.True(t, os.IsNotExist(err))

	// removing a missing key is not an error
	assert.NoError(t, client.Remove(ctx, []string{"7/123_abc.png"}))
}

func TestDiskRejectsTraversal(t *testing.T) {
	client, err := NewDiskClient(t.TempDir(), "")
	require.NoError(t, err)

	err = client.Put(context.Background(), "../escape.txt", "text/plain", 2, strings.NewReader("no"))
	assert.Error(t, err)
}

func TestOpenSelectsBackend(t *testing.T) {
	client, err := Open(context.Background(), Config{Backend: BackendDisk, DiskPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &DiskClient{}, client)

	_, err = Open(context.Background(), Config{Backend: "ftp"})
	assert.Error(t, err)
}
