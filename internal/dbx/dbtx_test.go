package dbx_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/credkeeper/internal/dbx"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/metadata"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	db, m, err := repomanager.Open(context.Background(), filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, m
}

func keys(t *testing.T, r metadata.Repository) map[string][]byte {
	t.Helper()
	all, err := r.List(context.Background())
	require.NoError(t, err)
	return all
}

func TestWithTx_Commit(t *testing.T) {
	ctx := context.Background()
	db, m := openStore(t)

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := m.Metadata(tx)
		if err := r.Set(ctx, "a", []byte("1")); err != nil {
			return err
		}
		return r.Set(ctx, "b", []byte("2"))
	})
	require.NoError(t, err)
	assert.Len(t, keys(t, m.Metadata(db)), 2)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	db, m := openStore(t)
	boom := errors.New("boom")

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		require.NoError(t, m.Metadata(tx).Set(ctx, "a", []byte("1")))
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, keys(t, m.Metadata(db)))
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	ctx := context.Background()
	db, m := openStore(t)

	assert.PanicsWithValue(t, "kaput", func() {
		_ = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			require.NoError(t, m.Metadata(tx).Set(ctx, "a", []byte("1")))
			panic("kaput")
		})
	})
	assert.Empty(t, keys(t, m.Metadata(db)))
}

func TestWithTx_BeginAndCommitErrors(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("no conn"))
	err = dbx.WithTx(ctx, db, nil, func(context.Context, dbx.DBTX) error { return nil })
	require.ErrorContains(t, err, "begin tx")

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))
	err = dbx.WithTx(ctx, db, nil, func(context.Context, dbx.DBTX) error { return nil })
	require.ErrorContains(t, err, "commit tx")

	require.NoError(t, mock.ExpectationsWereMet())
}
