package cryptox

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

// KeySize is the size in bytes of every symmetric key used here.
const KeySize = 32

// HKDF info strings. Changing any of them invalidates everything
// encrypted under that derivation path.
const (
	InfoSecretKey = "credkeeper.secret.v1"
	InfoTokenKey  = "credkeeper.token.v1"
)

// DeriveMasterKey stretches a passphrase into a KeySize root key with argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// DeriveKey derives a KeySize subkey of root for the given purpose.
func DeriveKey(root []byte, info string) ([]byte, error) {
	if len(root) == 0 {
		return nil, fmt.Errorf("cryptox: empty root key: %w", common.ErrInvalidArgument)
	}
	reader := hkdf.New(sha256.New, root, nil, []byte(info))
	derived := make([]byte, KeySize)
	if _, err := io.ReadFull(reader, derived); err != nil {
		common.WipeByteArray(derived)
		return nil, fmt.Errorf("cryptox: hkdf derivation failed: %w", err)
	}
	return derived, nil
}
