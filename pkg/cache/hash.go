package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
)

// keyVersion is mixed into every key. Bumping it orphans entries written
// in an older layout or artifact encoding.
const keyVersion = 1

// hashKey returns "prefix:" followed by the SHA-256 of the JSON-encoded
// parts.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(struct {
		V     int   `json:"v"`
		Parts []any `json:"parts"`
	}{keyVersion, parts})
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashReader returns the hex SHA-256 of everything read from r.
func HashReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
