package syncer

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// fileSHA256 returns the hex content hash of a file.
func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// sameContent reports whether dest exists with the same content as src.
// A missing destination is simply "different"; any other error propagates so
// the caller can abort rather than risk a half-true plan.
func sameContent(src, dest string) (bool, error) {
	destInfo, err := os.Stat(dest)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	if srcInfo.Size() != destInfo.Size() {
		return false, nil
	}

	srcHash, err := fileSHA256(src)
	if err != nil {
		return false, err
	}
	destHash, err := fileSHA256(dest)
	if err != nil {
		return false, err
	}
	return srcHash == destHash, nil
}
