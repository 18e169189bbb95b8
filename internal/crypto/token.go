package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// TokenCipher encrypts and decrypts store access tokens for storage at rest.
// Ciphertexts are hex(nonce):hex(sealed) so they stay printable in the
// database and portable across environments.
type TokenCipher struct {
	aead cipher.AEAD
}

// NewTokenCipher builds a cipher from a 64-hex-character (32 byte) key
func NewTokenCipher(hexKey string) (*TokenCipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &TokenCipher{aead: aead}, nil
}

// Encrypt seals a plaintext access token
func (c *TokenCipher) Encrypt(token string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(token), nil)
	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(sealed), nil
}

// Decrypt opens a stored token back into plaintext
func (c *TokenCipher) Decrypt(encrypted string) (string, error) {
	noncePart, sealedPart, ok := strings.Cut(encrypted, ":")
	if !ok {
		return "", fmt.Errorf("malformed encrypted token")
	}

	nonce, err := hex.DecodeString(noncePart)
	if err != nil {
		return "", fmt.Errorf("malformed token nonce: %w", err)
	}
	sealed, err := hex.DecodeString(sealedPart)
	if err != nil {
		return "", fmt.Errorf("malformed token ciphertext: %w", err)
	}
	if len(nonce) != c.aead.NonceSize() {
		return "", fmt.Errorf("malformed token nonce: bad length")
	}

	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt token: %w", err)
	}
	return string(plain), nil
}
