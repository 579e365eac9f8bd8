package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/cryptox"
	"github.com/dmitrijs2005/credkeeper/internal/models"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu       sync.Mutex
	seq      int
	users    map[string]models.User
	failWith error
}

func newMemStore() *memStore {
	return &memStore{users: map[string]models.User{}}
}

func (m *memStore) Insert(_ context.Context, username, email, secret string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return "", m.failWith
	}
	for _, u := range m.users {
		if u.UserName == username || (email != "" && u.Email == email) {
			return "", common.ErrorAlreadyExists
		}
	}
	m.seq++
	id := fmt.Sprintf("u%d", m.seq)
	m.users[id] = models.User{ID: id, UserName: username, Email: email, Secret: secret}
	return id, nil
}

func (m *memStore) FindByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return models.User{}, m.failWith
	}
	return m.users[id], nil
}

func (m *memStore) FindByUsernameOrEmail(_ context.Context, login string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return models.User{}, m.failWith
	}
	for _, u := range m.users {
		if u.UserName == login {
			return u, nil
		}
	}
	for _, u := range m.users {
		if u.Email != "" && u.Email == login {
			return u, nil
		}
	}
	return models.User{}, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.users, id)
	return nil
}

// Search deliberately leaks secrets so the service's scrubbing is visible.
func (m *memStore) Search(_ context.Context, _ models.SearchParams) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func testKey(b byte) []byte {
	k := make([]byte, cryptox.KeySize)
	for i := range k {
		k[i] = b
	}
	return k
}

func newTokenCodec(t *testing.T) *TokenCodec {
	t.Helper()
	c, err := cryptox.NewSIVCipher(testKey(0x11))
	require.NoError(t, err)
	return NewTokenCodec(c)
}

func newCipherVerifier(t *testing.T) *CipherVerifier {
	t.Helper()
	c, err := cryptox.NewGCMCipher(testKey(0x22))
	require.NoError(t, err)
	return NewCipherVerifier(c)
}
