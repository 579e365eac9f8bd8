package cryptox

import (
	"crypto/cipher"
	"crypto/subtle"
	"fmt"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20poly1305"
)

// SIVVersion is the leading byte of every SIVCipher output. It is also the
// AEAD additional data, so it cannot be altered without failing Open.
const SIVVersion byte = 0x01

var sivDomain = []byte("credkeeper.siv.nonce.v1")

// SIVCipher is a deterministic authenticated cipher: the XChaCha20-Poly1305
// nonce is a BLAKE3 keyed hash of the plaintext, so equal plaintexts under
// the same key always produce equal ciphertexts. That property is what lets
// a presented token be validated by re-minting and comparing.
//
// Wire format: base64url(version || nonce[24] || ciphertext+tag).
type SIVCipher struct {
	aead   cipher.AEAD
	sivKey []byte
}

// NewSIVCipher derives the encryption and nonce subkeys from key.
func NewSIVCipher(key []byte) (*SIVCipher, error) {
	encKey, err := DeriveKey(key, "credkeeper.siv.enc.v1")
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(encKey)

	sivKey, err := DeriveKey(key, "credkeeper.siv.mac.v1")
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(encKey)
	if err != nil {
		return nil, fmt.Errorf("cryptox: %w", err)
	}
	return &SIVCipher{aead: aead, sivKey: sivKey}, nil
}

func (c *SIVCipher) syntheticNonce(plain []byte) []byte {
	hasher, err := blake3.NewKeyed(c.sivKey)
	if err != nil {
		// sivKey always comes from DeriveKey and is KeySize bytes
		panic("cryptox: blake3 keyed hash: " + err.Error())
	}
	_, _ = hasher.Write(sivDomain)
	_, _ = hasher.Write(plain)
	return hasher.Sum(nil)[:chacha20poly1305.NonceSizeX]
}

func (c *SIVCipher) Encrypt(text string) (string, error) {
	plain := []byte(text)
	nonce := c.syntheticNonce(plain)

	out := make([]byte, 0, 1+len(nonce)+len(plain)+c.aead.Overhead())
	out = append(out, SIVVersion)
	out = append(out, nonce...)
	out = c.aead.Seal(out, nonce, plain, []byte{SIVVersion})
	return encoding.EncodeToString(out), nil
}

func (c *SIVCipher) Decrypt(text string) (string, error) {
	raw, err := encoding.DecodeString(text)
	if err != nil {
		return "", fmt.Errorf("cryptox: base64: %w", common.ErrDecode)
	}
	if len(raw) < 1+chacha20poly1305.NonceSizeX+c.aead.Overhead() {
		return "", fmt.Errorf("cryptox: ciphertext too short: %w", common.ErrDecode)
	}
	if raw[0] != SIVVersion {
		return "", fmt.Errorf("cryptox: unknown version %d: %w", raw[0], common.ErrDecode)
	}
	nonce := raw[1 : 1+chacha20poly1305.NonceSizeX]
	plain, err := c.aead.Open(nil, nonce, raw[1+chacha20poly1305.NonceSizeX:], raw[:1])
	if err != nil {
		return "", fmt.Errorf("cryptox: open: %w", common.ErrDecode)
	}
	// only the canonical nonce for this plaintext is accepted
	if subtle.ConstantTimeCompare(nonce, c.syntheticNonce(plain)) != 1 {
		return "", fmt.Errorf("cryptox: non-canonical nonce: %w", common.ErrDecode)
	}
	return string(plain), nil
}
