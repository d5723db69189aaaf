package utils

import (
	"crypto/sha256"
	"fmt"

	"github.com/rengeos/house-overlay/pkg/types"
)

// ChecksumPrefix is prepended to every checksum so the algorithm stays explicit
const ChecksumPrefix = "sha256:"

// CalculateFileChecksum returns the SHA-256 digest of the whole file as "sha256:<hex>"
func CalculateFileChecksum(fsys types.FS, path string) (string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", err
	}
	return CalculateChecksum(data), nil
}

// CalculateChecksum returns the SHA-256 digest of data as "sha256:<hex>"
func CalculateChecksum(data []byte) string {
	return fmt.Sprintf("%s%x", ChecksumPrefix, sha256.Sum256(data))
}
