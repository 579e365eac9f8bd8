package users

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/idcodec"
	"github.com/dmitrijs2005/credkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *fakeRepo) {
	t.Helper()
	codec, err := idcodec.NewSqidsCodec("", 8)
	require.NoError(t, err)
	repo := newFakeRepo()
	return NewStore(repo, codec), repo
}

func TestStore_InsertFind(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, "alice", "alice@example.com", "ct")
	require.NoError(t, err)
	assert.Len(t, id, 8)

	u, err := s.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "alice", u.UserName)
	assert.Equal(t, "ct", u.Secret)

	u, err = s.FindByUsernameOrEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)

	_, err = s.Insert(ctx, "alice", "", "ct")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestStore_NotFoundIsEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"", "not-an-id", "zzzzzzzzzz"} {
		u, err := s.FindByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, u.IsEmpty(), id)
	}

	u, err := s.FindByUsernameOrEmail(ctx, "ghost")
	require.NoError(t, err)
	assert.True(t, u.IsEmpty())

	u, err = s.FindByUsernameOrEmail(ctx, "")
	require.NoError(t, err)
	assert.True(t, u.IsEmpty())
}

func TestStore_Delete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, "alice", "", "ct")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	require.ErrorIs(t, s.Delete(ctx, id), common.ErrorNotFound)
	require.ErrorIs(t, s.Delete(ctx, "???"), common.ErrorNotFound)

	u, err := s.FindByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, u.IsEmpty())
}

func TestStore_SearchScrubs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, "alice", "", "ct1")
	require.NoError(t, err)
	_, err = s.Insert(ctx, "bob", "", "ct2")
	require.NoError(t, err)

	got, err := s.Search(ctx, models.DefaultSearchParams())
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, u := range got {
		assert.Empty(t, u.Secret)
		assert.NotEmpty(t, u.ID)
	}
}

func TestStore_FaultsAreStoreUnavailable(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, "alice", "", "ct")
	require.NoError(t, err)

	repo.failWith = errors.New("connection refused")

	_, err = s.FindByID(ctx, id)
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
	_, err = s.FindByUsernameOrEmail(ctx, "alice")
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
	_, err = s.Insert(ctx, "bob", "", "ct")
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
	require.ErrorIs(t, s.Delete(ctx, id), common.ErrStoreUnavailable)
	_, err = s.Search(ctx, models.DefaultSearchParams())
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
}
