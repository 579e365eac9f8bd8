package auth

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/models"
)

// Service implements registration, password login and token login on top of
// a UserStore. It holds no mutable state and is safe for concurrent use.
type Service struct {
	store    UserStore
	verifier Verifier
	tokens   *TokenCodec
	logger   logging.Logger

	// dummy is verified against when the login names no user, so that an
	// unknown user costs about as much as a wrong secret.
	dummy string
}

func NewService(store UserStore, verifier Verifier, tokens *TokenCodec, logger logging.Logger) *Service {
	dummy, err := verifier.Register(hex.EncodeToString(common.GenerateRandByteArray(16)))
	if err != nil {
		dummy = ""
	}
	return &Service{
		store:    store,
		verifier: verifier,
		tokens:   tokens,
		logger:   logger.With("component", "auth"),
		dummy:    dummy,
	}
}

func storeFault(op string, err error) error {
	if errors.Is(err, common.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%s: %w: %v", op, common.ErrStoreUnavailable, err)
}

// Register creates a user and returns it without the secret. A taken
// username or email is reported as common.ErrorAlreadyExists.
func (s *Service) Register(ctx context.Context, username, secret, email string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || secret == "" {
		return models.User{}, fmt.Errorf("username and secret are required: %w", common.ErrInvalidArgument)
	}
	if !utf8.ValidString(username) || !utf8.ValidString(email) {
		return models.User{}, fmt.Errorf("username and email must be valid UTF-8: %w", common.ErrInvalidArgument)
	}

	stored, err := s.verifier.Register(secret)
	if err != nil {
		return models.User{}, err
	}

	id, err := s.store.Insert(ctx, username, email, stored)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return models.User{}, err
		}
		return models.User{}, storeFault("insert user", err)
	}

	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.User{}, storeFault("find user", err)
	}
	if u.IsEmpty() {
		u = models.User{ID: id, UserName: username, Email: email}
	}

	s.logger.Info(ctx, "user registered", "user_id", id)
	return u.Scrubbed(), nil
}

// LoginWithPassword checks the secret for the user named by login (username
// or email) and mints a token bound to binding. Unknown users and wrong
// secrets both fail with common.ErrorUnauthorized.
func (s *Service) LoginWithPassword(ctx context.Context, login, secret, binding string) (string, models.User, error) {
	u, err := s.store.FindByUsernameOrEmail(ctx, strings.TrimSpace(login))
	if err != nil {
		return "", models.User{}, storeFault("find user", err)
	}

	stored := u.Secret
	if u.IsEmpty() {
		stored = s.dummy
	}
	ok := s.verifier.Verify(stored, secret)
	if u.IsEmpty() || !ok {
		s.logger.Info(ctx, "password login rejected")
		return "", models.User{}, common.ErrorUnauthorized
	}

	token, err := s.tokens.Mint(u.ID, u.UserName, u.Secret, binding)
	if err != nil {
		s.logger.Error(ctx, "mint token", "user_id", u.ID, "error", err)
		return "", models.User{}, err
	}

	s.logger.Info(ctx, "password login", "user_id", u.ID)
	return token, u.Scrubbed(), nil
}

// LoginWithToken re-authenticates a token previously issued under binding.
// The token is decoded, the user re-read from the store and a fresh token
// minted from that record; only an exact match is accepted.
func (s *Service) LoginWithToken(ctx context.Context, token, binding string) (models.User, error) {
	claimed, err := s.tokens.Decode(token)
	if err != nil {
		s.logger.Warn(ctx, "token rejected", "error", err)
		return models.User{}, common.ErrorUnauthorized
	}

	u, err := s.store.FindByID(ctx, claimed.ID)
	if err != nil {
		return models.User{}, storeFault("find user", err)
	}
	if u.IsEmpty() {
		s.logger.Info(ctx, "token for unknown user", "user_id", claimed.ID)
		return models.User{}, common.ErrorUnauthorized
	}

	fresh, err := s.tokens.Mint(u.ID, u.UserName, u.Secret, binding)
	if err != nil {
		return models.User{}, common.ErrorUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(fresh), []byte(token)) != 1 {
		s.logger.Info(ctx, "token does not match current state", "user_id", u.ID)
		return models.User{}, common.ErrorUnauthorized
	}

	return u.Scrubbed(), nil
}

// Delete removes the user. Tokens issued to it stop working immediately.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("empty identifier: %w", common.ErrInvalidArgument)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return storeFault("delete user", err)
	}
	s.logger.Info(ctx, "user deleted", "user_id", id)
	return nil
}

func (s *Service) Search(ctx context.Context, params models.SearchParams) ([]models.User, error) {
	found, err := s.store.Search(ctx, params.Normalize())
	if err != nil {
		return nil, storeFault("search users", err)
	}
	for i := range found {
		found[i] = found[i].Scrubbed()
	}
	return found, nil
}
