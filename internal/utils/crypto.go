// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func GenerateRandomString(length int, charset string) (string, error) {
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

// GeneratePublicID returns an opaque URL-safe id: base36 milliseconds, a dash,
// and six random base36 characters.
func GeneratePublicID(now time.Time) (string, error) {
	suffix, err := GenerateRandomString(6, base36)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(now.UnixMilli(), 36) + "-" + suffix, nil
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// UploadFileName builds "<unixms>-<random>-<basename>" with the basename
// reduced to a filesystem and URL safe form.
func UploadFileName(original string, now time.Time) (string, error) {
	random, err := GenerateRandomString(9, "0123456789")
	if err != nil {
		return "", err
	}
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	base = unsafeFileChars.ReplaceAllString(base, "_")
	if base == "" || base == "." || base == "_" {
		base = "image"
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + random + "-" + base, nil
}
