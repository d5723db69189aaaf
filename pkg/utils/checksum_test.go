// Test Type: Unit Test
// Description: Tests for checksum calculation over the FS abstraction

package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rengeos/house-overlay/pkg/filesystem"
	"github.com/rengeos/house-overlay/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFileChecksum_Success(t *testing.T) {
	tempDir := t.TempDir()
	fs := filesystem.NewOS()

	tests := []struct {
		name           string
		content        string
		expectedPrefix string
		expectedLength int
	}{
		{
			name:           "file_with_content",
			content:        "Hello, World!\nThis is a test file.\n",
			expectedPrefix: "sha256:",
			expectedLength: 71, // "sha256:" + 64 hex chars
		},
		{
			name:           "empty_file",
			content:        "",
			expectedPrefix: "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			expectedLength: 71,
		},
		{
			name:           "binary_content",
			content:        "\x00\x01\x02\x03\x04\x05",
			expectedPrefix: "sha256:",
			expectedLength: 71,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFile := filepath.Join(tempDir, tt.name)
			require.NoError(t, os.WriteFile(testFile, []byte(tt.content), 0644))

			checksum, err := utils.CalculateFileChecksum(fs, testFile)
			require.NoError(t, err)

			assert.Contains(t, checksum, tt.expectedPrefix)
			assert.Len(t, checksum, tt.expectedLength)

			if len(tt.expectedPrefix) == tt.expectedLength {
				assert.Equal(t, tt.expectedPrefix, checksum)
			}
		})
	}
}

func TestCalculateFileChecksum_IdenticalContentMatches(t *testing.T) {
	tempDir := t.TempDir()
	fs := filesystem.NewOS()
	a := filepath.Join(tempDir, "a")
	b := filepath.Join(tempDir, "b")
	c := filepath.Join(tempDir, "c")
	require.NoError(t, os.WriteFile(a, []byte("same bytes"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("same bytes"), 0755))
	require.NoError(t, os.WriteFile(c, []byte("same bytes!"), 0644))

	sumA, err := utils.CalculateFileChecksum(fs, a)
	require.NoError(t, err)
	sumB, err := utils.CalculateFileChecksum(fs, b)
	require.NoError(t, err)
	sumC, err := utils.CalculateFileChecksum(fs, c)
	require.NoError(t, err)

	assert.Equal(t, sumA, sumB, "mode must not affect the digest")
	assert.NotEqual(t, sumA, sumC)
}

func TestCalculateFileChecksum_Errors(t *testing.T) {
	fs := filesystem.NewOS()

	_, err := utils.CalculateFileChecksum(fs, "/non/existent/file")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such file or directory")

	_, err = utils.CalculateFileChecksum(fs, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}
