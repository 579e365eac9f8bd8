package auth

import (
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/credkeeper/internal/codec"
	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/cryptox"
	"github.com/dmitrijs2005/credkeeper/internal/models"
)

const tokenVersion = 1

// tokenPayload is the canonical token plaintext: a CBOR array
// [version, identifier, username, secret, binding] in Core Deterministic
// Encoding. Field order is part of the token format.
type tokenPayload struct {
	_        struct{} `cbor:",toarray"`
	Version  uint
	ID       string
	UserName string
	Secret   string
	Binding  string
}

// TokenCodec mints and decodes tokens. The cipher must be deterministic
// (see cryptox.SIVCipher) or re-minted tokens will never match.
type TokenCodec struct {
	cipher cryptox.Cipher
}

func NewTokenCodec(c cryptox.Cipher) *TokenCodec {
	return &TokenCodec{cipher: c}
}

// Mint seals (id, username, secret, binding) into a token.
func (t *TokenCodec) Mint(id, username, secret, binding string) (string, error) {
	if id == "" || secret == "" {
		return "", fmt.Errorf("mint: identifier and secret are required: %w", common.ErrInvalidArgument)
	}
	// CBOR text strings must be valid UTF-8 or the token will not decode.
	for _, f := range [...]string{id, username, secret, binding} {
		if !utf8.ValidString(f) {
			return "", fmt.Errorf("mint: fields must be valid UTF-8: %w", common.ErrInvalidArgument)
		}
	}
	raw, err := codec.Marshal(tokenPayload{
		Version:  tokenVersion,
		ID:       id,
		UserName: username,
		Secret:   secret,
		Binding:  binding,
	})
	if err != nil {
		return "", fmt.Errorf("mint: %w", err)
	}
	return t.cipher.Encrypt(string(raw))
}

// Decode opens a token and returns the identity it carries. The binding is
// not returned; callers check it by re-minting. Any failure yields the empty
// user and an error wrapping common.ErrDecode.
func (t *TokenCodec) Decode(token string) (models.User, error) {
	raw, err := t.cipher.Decrypt(token)
	if err != nil {
		return models.User{}, fmt.Errorf("decode token: %w", common.ErrDecode)
	}
	var p tokenPayload
	if err := codec.Unmarshal([]byte(raw), &p); err != nil {
		return models.User{}, fmt.Errorf("decode token payload: %w", common.ErrDecode)
	}
	if p.Version != tokenVersion {
		return models.User{}, fmt.Errorf("token version %d: %w", p.Version, common.ErrDecode)
	}
	if p.ID == "" || p.Secret == "" {
		return models.User{}, fmt.Errorf("token missing identity: %w", common.ErrDecode)
	}
	return models.User{ID: p.ID, UserName: p.UserName, Secret: p.Secret}, nil
}
