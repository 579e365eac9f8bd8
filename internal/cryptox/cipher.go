package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/credkeeper/internal/common"
)

// Cipher is a reversible text cipher. Decrypt(Encrypt(x)) == x for every x.
// Decrypt failures wrap common.ErrDecode.
type Cipher interface {
	Encrypt(text string) (string, error)
	Decrypt(text string) (string, error)
}

var encoding = base64.RawURLEncoding

// GCMCipher is AES-256-GCM with a random nonce per call. Two encryptions of
// the same text differ, so its output must never be compared for equality.
//
// Wire format: base64url(nonce || ciphertext+tag).
type GCMCipher struct {
	aead cipher.AEAD
}

// NewGCMCipher builds a GCMCipher. key must be 16, 24 or 32 bytes.
func NewGCMCipher(key []byte) (*GCMCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptox: %w", err)
	}
	return &GCMCipher{aead: aead}, nil
}

func (c *GCMCipher) Encrypt(text string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(text)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("cryptox: nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(text), nil)
	return encoding.EncodeToString(sealed), nil
}

func (c *GCMCipher) Decrypt(text string) (string, error) {
	raw, err := encoding.DecodeString(text)
	if err != nil {
		return "", fmt.Errorf("cryptox: base64: %w", common.ErrDecode)
	}
	ns := c.aead.NonceSize()
	if len(raw) < ns+c.aead.Overhead() {
		return "", fmt.Errorf("cryptox: ciphertext too short: %w", common.ErrDecode)
	}
	plain, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("cryptox: open: %w", common.ErrDecode)
	}
	return string(plain), nil
}
