package logging

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLogFileStampsName(t *testing.T) {
	dir := t.TempDir()

	file, err := openLogFile(filepath.Join(dir, "cashbook.log"))
	require.NoError(t, err)
	defer file.Close()

	name := filepath.Base(file.Name())
	assert.True(t, strings.HasPrefix(name, "cashbook-"))
	assert.True(t, strings.HasSuffix(name, ".log"))
}

func TestLoggerFallsBackToStdout(t *testing.T) {
	logger := Logger(filepath.Join(t.TempDir(), "missing", "nested", "out.log"))
	assert.NotNil(t, logger)
}
