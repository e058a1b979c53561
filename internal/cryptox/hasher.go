// Package cryptox holds the server's cryptographic building blocks: the
// one-way login password hasher and the reversible secret protector. The two
// never share key material.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// MinIterations is the lowest PBKDF2 iteration count the hasher will use.
	MinIterations = 100_000

	saltSize = 16
	keySize  = 32

	separator = "."
)

// Hasher derives and verifies login password hashes with PBKDF2-HMAC-SHA256.
//
// The encoded form is "iterations.salt.hash" with standard base64 segments,
// so verification needs nothing but the stored string.
type Hasher struct {
	iterations int
}

// NewHasher returns a Hasher using the given iteration count, raised to
// MinIterations when lower.
func NewHasher(iterations int) *Hasher {
	if iterations < MinIterations {
		iterations = MinIterations
	}
	return &Hasher{iterations: iterations}
}

// Iterations reports the count used for new hashes.
func (h *Hasher) Iterations() int { return h.iterations }

// Hash derives a new encoded hash of password under a fresh random salt.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt generation error: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, h.iterations, keySize, sha256.New)

	return strconv.Itoa(h.iterations) + separator +
		base64.StdEncoding.EncodeToString(salt) + separator +
		base64.StdEncoding.EncodeToString(key), nil
}

// Verify reports whether password matches the encoded hash. Malformed input
// of any kind yields false.
func (h *Hasher) Verify(password, encoded string) bool {
	parts := strings.SplitN(encoded, separator, 3)
	if len(parts) != 3 {
		return false
	}

	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	expected, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil || len(expected) == 0 {
		return false
	}

	actual := pbkdf2.Key([]byte(password), salt, iterations, len(expected), sha256.New)

	return subtle.ConstantTimeCompare(actual, expected) == 1
}

// IsEncoded reports whether stored looks like output of Hash. Values that do
// not are legacy plaintext passwords awaiting upgrade.
func IsEncoded(stored string) bool {
	return strings.Contains(stored, separator)
}

// EqualLegacy compares a submitted password with a legacy plaintext value in
// constant time.
func EqualLegacy(password, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
}
