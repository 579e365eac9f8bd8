package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	store := newMemStore()
	return NewService(store, newCipherVerifier(t), newTokenCodec(t), logging.Discard()), store
}

func registerAlice(t *testing.T, s *Service) models.User {
	t.Helper()
	u, err := s.Register(context.Background(), "alice", "secret123", "alice@example.com")
	require.NoError(t, err)
	return u
}

func TestService_Register(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()

	u := registerAlice(t, s)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice", u.UserName)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Empty(t, u.Secret)

	stored := store.users[u.ID].Secret
	assert.NotEmpty(t, stored)
	assert.NotEqual(t, "secret123", stored)

	_, err := s.Register(ctx, "alice", "other", "")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	_, err = s.Register(ctx, "", "secret", "")
	require.ErrorIs(t, err, common.ErrInvalidArgument)
	_, err = s.Register(ctx, "   ", "secret", "")
	require.ErrorIs(t, err, common.ErrInvalidArgument)
	_, err = s.Register(ctx, "bob", "", "")
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestService_RegisterRejectsInvalidUTF8(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "al\xffice", "secret123", "")
	require.ErrorIs(t, err, common.ErrInvalidArgument)
	_, err = s.Register(ctx, "alice", "secret123", "a\xfe@example.com")
	require.ErrorIs(t, err, common.ErrInvalidArgument)
	assert.Empty(t, store.users)

	// a registered user can always come back with the token it was given
	_, err = s.Register(ctx, "ålice", "secret123", "")
	require.NoError(t, err)
	token, _, err := s.LoginWithPassword(ctx, "ålice", "secret123", "host-A")
	require.NoError(t, err)
	u, err := s.LoginWithToken(ctx, token, "host-A")
	require.NoError(t, err)
	assert.Equal(t, "ålice", u.UserName)
}

func TestService_LoginWithPassword(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := registerAlice(t, s)

	tok, u, err := s.LoginWithPassword(ctx, "alice", "secret123", "host-A")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.Equal(t, "alice", u.UserName)
	assert.Equal(t, alice.ID, u.ID)
	assert.Empty(t, u.Secret)

	// email works as the login too and yields the same token
	tok2, _, err := s.LoginWithPassword(ctx, "alice@example.com", "secret123", "host-A")
	require.NoError(t, err)
	assert.Equal(t, tok, tok2)
}

func TestService_LoginWithPassword_Failures(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	registerAlice(t, s)

	cases := map[string]struct{ login, secret string }{
		"wrong password": {"alice", "wrongpass"},
		"unknown user":   {"mallory", "secret123"},
		"empty login":    {"", "secret123"},
		"empty secret":   {"alice", ""},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			tok, u, err := s.LoginWithPassword(ctx, c.login, c.secret, "host-A")
			require.ErrorIs(t, err, common.ErrorUnauthorized)
			assert.Empty(t, tok)
			assert.True(t, u.IsEmpty())
		})
	}
}

func TestService_LoginWithToken(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	registerAlice(t, s)

	tok, first, err := s.LoginWithPassword(ctx, "alice", "secret123", "host-A")
	require.NoError(t, err)

	u, err := s.LoginWithToken(ctx, tok, "host-A")
	require.NoError(t, err)
	assert.Equal(t, first, u)
	assert.Empty(t, u.Secret)

	// decodes fine, but was issued to another binding
	_, err = s.tokens.Decode(tok)
	require.NoError(t, err)
	_, err = s.LoginWithToken(ctx, tok, "host-B")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.LoginWithToken(ctx, "garbage", "host-A")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestService_LoginWithToken_StaleRecord(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()
	alice := registerAlice(t, s)

	tok, _, err := s.LoginWithPassword(ctx, "alice", "secret123", "host-A")
	require.NoError(t, err)

	// the stored secret changes underneath the token
	rec := store.users[alice.ID]
	rec.Secret, err = s.verifier.Register("secret456")
	require.NoError(t, err)
	store.users[alice.ID] = rec

	_, err = s.LoginWithToken(ctx, tok, "host-A")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestService_DeleteInvalidatesToken(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := registerAlice(t, s)

	tok, _, err := s.LoginWithPassword(ctx, "alice", "secret123", "host-A")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, alice.ID))

	_, err = s.LoginWithToken(ctx, tok, "host-A")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	require.ErrorIs(t, s.Delete(ctx, alice.ID), common.ErrorNotFound)
	require.ErrorIs(t, s.Delete(ctx, ""), common.ErrInvalidArgument)
}

func TestService_StoreUnavailable(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()
	registerAlice(t, s)
	tok, _, err := s.LoginWithPassword(ctx, "alice", "secret123", "host-A")
	require.NoError(t, err)

	store.failWith = errors.New("connection refused")

	_, err = s.Register(ctx, "bob", "pw", "")
	require.ErrorIs(t, err, common.ErrStoreUnavailable)

	_, _, err = s.LoginWithPassword(ctx, "alice", "secret123", "host-A")
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
	require.NotErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.LoginWithToken(ctx, tok, "host-A")
	require.ErrorIs(t, err, common.ErrStoreUnavailable)

	require.ErrorIs(t, s.Delete(ctx, "u1"), common.ErrStoreUnavailable)

	_, err = s.Search(ctx, models.DefaultSearchParams())
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestService_SearchScrubsSecrets(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	registerAlice(t, s)
	_, err := s.Register(ctx, "bob", "pw", "")
	require.NoError(t, err)

	found, err := s.Search(ctx, models.SearchParams{})
	require.NoError(t, err)
	require.Len(t, found, 2)
	for _, u := range found {
		assert.Empty(t, u.Secret)
	}
}

func TestService_HashVerifier(t *testing.T) {
	store := newMemStore()
	s := NewService(store, NewHashVerifier(), newTokenCodec(t), logging.Discard())
	ctx := context.Background()
	registerAlice(t, s)

	tok, _, err := s.LoginWithPassword(ctx, "alice", "secret123", "host-A")
	require.NoError(t, err)
	_, err = s.LoginWithToken(ctx, tok, "host-A")
	require.NoError(t, err)

	_, _, err = s.LoginWithPassword(ctx, "alice", "nope", "host-A")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestService_Concurrent(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	registerAlice(t, s)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, _, err := s.LoginWithPassword(ctx, "alice", "secret123", "host-A")
			if err != nil {
				errs <- err
				return
			}
			if _, err := s.LoginWithToken(ctx, tok, "host-A"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
