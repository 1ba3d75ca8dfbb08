package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateTempFile writes content to filename inside a fresh temp directory
// and returns the file path.
func CreateTempFile(t *testing.T, filename, content string) string {
	t.Helper()
	return filepath.Join(CreateTempDir(t, map[string]string{filename: content}), filename)
}

// CreateTempDir creates a temp directory holding files (relative path to
// content) and returns it.
func CreateTempDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tmpDir := t.TempDir()

	for filename, content := range files {
		filePath := filepath.Join(tmpDir, filename)

		if dir := filepath.Dir(filePath); dir != tmpDir {
			require.NoError(t, os.MkdirAll(dir, 0o755), "Should create directory %s", dir)
		}
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o600), "Should create file %s", filename)
	}

	return tmpDir
}
