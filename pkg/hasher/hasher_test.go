package hasher_test

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/cesi-vents/vents/pkg/hasher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidHashAlgo(t *testing.T) {
	assert.True(t, hasher.IsValidHashAlgo("sha256"))
	assert.True(t, hasher.IsValidHashAlgo("SHA256"))
	assert.True(t, hasher.IsValidHashAlgo("md5"))
	assert.False(t, hasher.IsValidHashAlgo("crc32"))
	assert.False(t, hasher.IsValidHashAlgo(""))
}

func TestFileChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatar.png")
	content := []byte("not really a png")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	sum := sha256.Sum256(content)
	got, err := hasher.FileChecksum(path, "sha256")
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(sum[:]), got)
}

func TestFileChecksumErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatar.png")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := hasher.FileChecksum(path, "crc32")
	assert.Error(t, err)

	_, err = hasher.FileChecksum(filepath.Join(t.TempDir(), "missing.png"), "sha256")
	assert.Error(t, err)
}
