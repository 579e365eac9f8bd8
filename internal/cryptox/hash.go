package cryptox

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	hashPrefix = "$argon2id$"
	saltSize   = 16
)

// HashSecret returns a salted argon2id hash of secret in the form
// $argon2id$<salt>$<hash> (both base64url).
func HashSecret(secret string) string {
	salt := common.GenerateRandByteArray(saltSize)
	sum := argon2.IDKey([]byte(secret), salt, 1, 64*1024, 4, KeySize)
	return hashPrefix + encoding.EncodeToString(salt) + "$" + encoding.EncodeToString(sum)
}

// CompareHashedSecret reports whether candidate matches a HashSecret value.
// Malformed input yields an error wrapping common.ErrDecode.
func CompareHashedSecret(hashed, candidate string) (bool, error) {
	if !strings.HasPrefix(hashed, hashPrefix) {
		return false, fmt.Errorf("cryptox: not an argon2id hash: %w", common.ErrDecode)
	}
	parts := strings.Split(strings.TrimPrefix(hashed, hashPrefix), "$")
	if len(parts) != 2 {
		return false, fmt.Errorf("cryptox: malformed hash: %w", common.ErrDecode)
	}
	salt, err := encoding.DecodeString(parts[0])
	if err != nil {
		return false, fmt.Errorf("cryptox: salt: %w", common.ErrDecode)
	}
	want, err := encoding.DecodeString(parts[1])
	if err != nil || len(want) != KeySize {
		return false, fmt.Errorf("cryptox: hash: %w", common.ErrDecode)
	}
	got := argon2.IDKey([]byte(candidate), salt, 1, 64*1024, 4, KeySize)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
