package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// maxFingerprintBytes bounds how much of a file is hashed.
const maxFingerprintBytes = 64 * 1024

// FileFingerprint returns a CRC32 of the file's first 64KB and its size.
// Config files fit entirely, so equal fingerprints mean unchanged content.
func FileFingerprint(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", err
	}

	hash := crc32.NewIEEE()
	if _, err := io.CopyN(hash, file, maxFingerprintBytes); err != nil && err != io.EOF {
		return "", err
	}
	return fmt.Sprintf("%08x-%d", hash.Sum32(), stat.Size()), nil
}
