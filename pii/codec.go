// Package pii encrypts personally identifying fields (phone, address,
// postal code) before they are persisted.
package pii

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var errCiphertextTooShort = errors.New("pii: ciphertext too short")

// Codec encrypts and decrypts individual string fields with
// ChaCha20-Poly1305. Output is base64(nonce || ciphertext).
type Codec struct {
	aead cipher.AEAD
}

// NewCodec builds a Codec from a hex-encoded 32-byte key.
func NewCodec(hexKey string) (*Codec, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("pii: decode key: %w", err)
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("pii: init cipher: %w", err)
	}
	return &Codec{aead: aead}, nil
}

// Encrypt seals a plaintext field with a fresh random nonce.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("pii: nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (c *Codec) Decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("pii: decode: %w", err)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", errCiphertextTooShort
	}
	nonce, ciphertext := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("pii: open: %w", err)
	}
	return string(plaintext), nil
}
