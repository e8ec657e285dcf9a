package ledger

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrEmptyName is returned by GenerateSignature when the ledger name is
// empty or only whitespace.
var ErrEmptyName = errors.New("signature name must not be empty")

// GenerateSignature derives the deterministic per-ledger secret that salts
// row hashes. Without a password the signature is base64(name); with one it
// is base64(name + ":" + password). The same name and password always yield
// the same signature, so independently constructed ledgers agree on it.
func GenerateSignature(name, password string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyName
	}
	if password == "" {
		return base64.StdEncoding.EncodeToString([]byte(name)), nil
	}
	return base64.StdEncoding.EncodeToString([]byte(name + ":" + password)), nil
}

// HashRow computes the hex SHA-256 digest of the row values salted with the
// signature. Each value is terminated with a NUL byte before hashing so that
// ["ab","c"] and ["a","bc"] digest differently. values must exclude any
// existing hash column.
func HashRow(values []string, signature string) string {
	h := sha256.New()
	for _, v := range values {
		h.Write([]byte(v))
		h.Write([]byte{0})
	}
	h.Write([]byte(signature))
	return hex.EncodeToString(h.Sum(nil))
}
