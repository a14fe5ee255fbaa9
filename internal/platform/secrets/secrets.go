// Package secrets provides symmetric encryption for small sensitive
// values (API credentials, tokens at rest) using AES-GCM with a key
// derived from the application secret via PBKDF2.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Key derivation parameters.
const (
	keyLength  = 32
	iterations = 100_000
)

// Common errors
var (
	// ErrInvalidCiphertext indicates the input is not a value produced
	// by Encrypt, or has been tampered with.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")

	// ErrMissingSalt indicates the box was constructed without a salt.
	ErrMissingSalt = errors.New("encryption salt is required")
)

// Box encrypts and decrypts short strings. The key is derived once at
// construction; a fresh random nonce is used for every Encrypt call and
// carried inside the ciphertext.
type Box struct {
	aead cipher.AEAD
}

// New derives an AES-256-GCM key from the given secret and
// base64-encoded salt.
func New(secret, saltB64 string) (*Box, error) {
	if saltB64 == "" {
		return nil, ErrMissingSalt
	}
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption salt: %w", err)
	}

	key := pbkdf2.Key([]byte(secret), salt, iterations, keyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Box{aead: aead}, nil
}

// Encrypt seals the plaintext and returns a base64 string of
// nonce||ciphertext||tag.
func (b *Box) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := b.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt.
func (b *Box) Decrypt(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}

	nonceSize := b.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", ErrInvalidCiphertext
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := b.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}

	return string(plaintext), nil
}
