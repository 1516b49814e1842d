package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// HashURL returns a stable hex key for a URL, suitable for Redis keys.
func HashURL(rawURL string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(rawURL)))
	return hex.EncodeToString(sum[:])
}

// ToAbsoluteURL resolves ref against base.
func ToAbsoluteURL(base *url.URL, ref string) (string, error) {
	relURL, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	return base.ResolveReference(relURL).String(), nil
}
