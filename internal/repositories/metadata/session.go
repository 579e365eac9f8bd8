package metadata

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/credkeeper/internal/dbx"
)

// Session is the remembered CLI login: a token and the username it was
// issued to. Both keys are written and removed in one transaction.
type Session struct {
	db   *sql.DB
	repo func(dbx.DBTX) Repository
}

// NewSession stores the session in db through repositories built by repo,
// typically a RepositoryManager's Metadata method.
func NewSession(db *sql.DB, repo func(dbx.DBTX) Repository) *Session {
	return &Session{db: db, repo: repo}
}

// Token returns the remembered token, or "" when there is none.
func (s *Session) Token(ctx context.Context) (string, error) {
	raw, err := s.repo(s.db).Get(ctx, KeyToken)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// UserName returns the username the remembered token belongs to.
func (s *Session) UserName(ctx context.Context) (string, error) {
	raw, err := s.repo(s.db).Get(ctx, KeyUserName)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s *Session) Save(ctx context.Context, token, username string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Set(ctx, KeyToken, []byte(token)); err != nil {
			return err
		}
		return r.Set(ctx, KeyUserName, []byte(username))
	})
}

func (s *Session) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Delete(ctx, KeyToken); err != nil {
			return err
		}
		return r.Delete(ctx, KeyUserName)
	})
}
