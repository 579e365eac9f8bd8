package auth

import (
	"context"

	"github.com/dmitrijs2005/credkeeper/internal/models"
)

// UserStore is the persistence the core consumes. Lookups return the empty
// models.User (and a nil error) when nothing matches. Faults wrap
// common.ErrStoreUnavailable.
type UserStore interface {
	Insert(ctx context.Context, username, email, secret string) (string, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByUsernameOrEmail(ctx context.Context, login string) (models.User, error)
	Delete(ctx context.Context, id string) error
	// Search results never carry Secret.
	Search(ctx context.Context, params models.SearchParams) ([]models.User, error)
}
