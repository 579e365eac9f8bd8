package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/idcodec"
	"github.com/dmitrijs2005/credkeeper/internal/models"
)

// Store exposes a Repository through public identifiers. Lookups return the
// empty models.User when nothing matches; any other repository failure is
// wrapped in common.ErrStoreUnavailable.
type Store struct {
	repo  Repository
	codec idcodec.Codec
}

func NewStore(repo Repository, codec idcodec.Codec) *Store {
	return &Store{repo: repo, codec: codec}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, common.ErrStoreUnavailable, err)
}

func (s *Store) toUser(r *Record) (models.User, error) {
	id, err := s.codec.Encode(r.ID)
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		ID:        id,
		UserName:  r.UserName,
		Email:     r.Email,
		Secret:    r.Secret,
		CreatedAt: r.CreatedAt,
	}, nil
}

func (s *Store) Insert(ctx context.Context, username, email, secret string) (string, error) {
	rec, err := s.repo.Create(ctx, &Record{UserName: username, Email: email, Secret: secret})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return "", err
		}
		return "", unavailable("insert", err)
	}
	return s.codec.Encode(rec.ID)
}

func (s *Store) FindByID(ctx context.Context, id string) (models.User, error) {
	internal, err := s.codec.Decode(id)
	if err != nil {
		// an id this deployment never issued
		return models.User{}, nil
	}
	return s.find(s.repo.GetByID(ctx, internal))
}

func (s *Store) FindByUsernameOrEmail(ctx context.Context, login string) (models.User, error) {
	if login == "" {
		return models.User{}, nil
	}
	return s.find(s.repo.GetByLogin(ctx, login))
}

func (s *Store) find(r *Record, err error) (models.User, error) {
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.User{}, nil
		}
		return models.User{}, unavailable("find", err)
	}
	return s.toUser(r)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	internal, err := s.codec.Decode(id)
	if err != nil {
		return common.ErrorNotFound
	}
	if err := s.repo.Delete(ctx, internal); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return unavailable("delete", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, p models.SearchParams) ([]models.User, error) {
	recs, err := s.repo.Search(ctx, p)
	if err != nil {
		return nil, unavailable("search", err)
	}
	out := make([]models.User, 0, len(recs))
	for _, r := range recs {
		u, err := s.toUser(r)
		if err != nil {
			return nil, err
		}
		out = append(out, u.Scrubbed())
	}
	return out, nil
}
