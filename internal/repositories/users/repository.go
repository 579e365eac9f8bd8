// Package users persists user rows and adapts them to the auth core.
//
// Repositories work with the internal integer row id. Store wraps a
// Repository with an idcodec.Codec so that everything above this package
// only ever sees the public, encoded identifier.
package users

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/credkeeper/internal/models"
)

// Record is a row of the users table.
type Record struct {
	ID        int64
	UserName  string
	Email     string
	Secret    string
	CreatedAt time.Time
}

// Repository is the storage contract for user rows. Missing rows are
// reported as common.ErrorNotFound, unique violations as
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, r *Record) (*Record, error)
	GetByID(ctx context.Context, id int64) (*Record, error)
	// GetByLogin matches username first, then a non-empty email.
	GetByLogin(ctx context.Context, login string) (*Record, error)
	Delete(ctx context.Context, id int64) error
	// Search never populates Record.Secret.
	Search(ctx context.Context, p models.SearchParams) ([]*Record, error)
}

var sortColumns = map[string]string{
	models.SortByID:        "id",
	models.SortByUserName:  "username",
	models.SortByEmail:     "email",
	models.SortByCreatedAt: "created_at",
}

func orderBy(p models.SearchParams) string {
	col := sortColumns[p.SortField]
	dir := "DESC"
	if p.Ascending {
		dir = "ASC"
	}
	return " ORDER BY " + col + " " + dir + ", id " + dir
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
