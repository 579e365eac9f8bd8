package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/dbx"
	"github.com/dmitrijs2005/credkeeper/internal/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements Repository over a dbx.DBTX backed by modernc sqlite.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, rec *Record) (*Record, error) {
	query := `INSERT INTO users (username, email, secret, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	err := r.db.QueryRowContext(ctx, query, rec.UserName, rec.Email, rec.Secret, rec.CreatedAt).Scan(&rec.ID)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*Record, error) {
	query := `SELECT id, username, email, secret, created_at FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRepository) GetByLogin(ctx context.Context, login string) (*Record, error) {
	query := `SELECT id, username, email, secret, created_at FROM users
		WHERE username = ? OR (email <> '' AND email = ?)
		ORDER BY CASE WHEN username = ? THEN 0 ELSE 1 END
		LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, login, login, login))
}

func (r *SQLiteRepository) scanOne(row *sql.Row) (*Record, error) {
	rec := &Record{}
	err := row.Scan(&rec.ID, &rec.UserName, &rec.Email, &rec.Secret, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) Search(ctx context.Context, p models.SearchParams) ([]*Record, error) {
	p = p.Normalize()
	pattern := likePattern(p.Query)

	query := `SELECT id, username, email, created_at FROM users
		WHERE ? = '' OR username LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\'` +
		orderBy(p) + ` LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, p.Query, pattern, pattern, p.Limit, p.Offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*Record, 0, p.Limit)
	for rows.Next() {
		rec := &Record{}
		if err := rows.Scan(&rec.ID, &rec.UserName, &rec.Email, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return result, nil
}

func isSQLiteUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
