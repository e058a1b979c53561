package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// SecretMaskingPurpose scopes the masking key. Any other subsystem deriving
// from the same master key must use a different purpose string.
const SecretMaskingPurpose = "passvault.secret-masking.v1"

const formatVersion byte = 1

var errMalformedToken = errors.New("malformed protected value")

// Protector masks stored secret values with AES-256-GCM under a key derived
// from the master key and a fixed purpose string.
//
// A protected value is base64url(version || nonce || ciphertext); the
// purpose is bound as additional data.
type Protector struct {
	aead    cipher.AEAD
	purpose []byte
}

// NewProtector derives the purpose key from masterKey with HKDF-SHA256.
func NewProtector(masterKey []byte, purpose string) (*Protector, error) {
	if len(masterKey) == 0 {
		return nil, errors.New("protection key is empty")
	}
	if purpose == "" {
		return nil, errors.New("protection purpose is empty")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, masterKey, nil, []byte(purpose)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}

	return &Protector{aead: aead, purpose: []byte(purpose)}, nil
}

// Protect returns the masked form of plaintext.
func (p *Protector) Protect(plaintext string) (string, error) {
	nonceSize := p.aead.NonceSize()

	buf := make([]byte, 1+nonceSize, 1+nonceSize+len(plaintext)+p.aead.Overhead())
	buf[0] = formatVersion
	if _, err := rand.Read(buf[1:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := p.aead.Seal(buf, buf[1:1+nonceSize], []byte(plaintext), p.purpose)

	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Unprotect reverses Protect. A value that does not decode or authenticate
// is returned unchanged: rows written before masking existed hold plaintext.
func (p *Protector) Unprotect(token string) string {
	plaintext, err := p.open(token)
	if err != nil {
		return token
	}
	return plaintext
}

func (p *Protector) open(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", err
	}

	nonceSize := p.aead.NonceSize()
	if len(raw) < 1+nonceSize+p.aead.Overhead() || raw[0] != formatVersion {
		return "", errMalformedToken
	}

	plaintext, err := p.aead.Open(nil, raw[1:1+nonceSize], raw[1+nonceSize:], p.purpose)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
