package auth

import (
	"crypto/subtle"
	"fmt"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/cryptox"
)

// Verifier turns a plaintext secret into its stored form and checks
// candidates against it. Verify never fails loudly: anything it cannot
// interpret is a mismatch.
type Verifier interface {
	Register(plain string) (string, error)
	Verify(stored, candidate string) bool
}

// CipherVerifier stores secrets reversibly and verifies by decrypting.
type CipherVerifier struct {
	cipher cryptox.Cipher
}

func NewCipherVerifier(c cryptox.Cipher) *CipherVerifier {
	return &CipherVerifier{cipher: c}
}

func (v *CipherVerifier) Register(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("empty secret: %w", common.ErrInvalidArgument)
	}
	return v.cipher.Encrypt(plain)
}

func (v *CipherVerifier) Verify(stored, candidate string) bool {
	plain, err := v.cipher.Decrypt(stored)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(plain), []byte(candidate)) == 1
}

// HashVerifier stores a salted argon2id hash.
type HashVerifier struct{}

func NewHashVerifier() *HashVerifier {
	return &HashVerifier{}
}

func (v *HashVerifier) Register(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("empty secret: %w", common.ErrInvalidArgument)
	}
	return cryptox.HashSecret(plain), nil
}

func (v *HashVerifier) Verify(stored, candidate string) bool {
	ok, err := cryptox.CompareHashedSecret(stored, candidate)
	return err == nil && ok
}
