package users

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/dmitrijs2005/credkeeper/internal/codec"
	"github.com/dmitrijs2005/credkeeper/internal/models"
)

// CachedRepository caches Search pages. Lookups used for authentication
// (GetByID, GetByLogin) always go to the underlying repository, so a
// deleted or changed user is seen at once by every process sharing the
// database.
//
// Pages are keyed by a write generation bumped after every Create and
// Delete in this process; a page read before a write is never served after
// it. Writes made by other processes show up once the ttl expires.
type CachedRepository struct {
	next  Repository
	cache *bigcache.BigCache
	gen   atomic.Uint64
}

type cachedRecord struct {
	_         struct{} `cbor:",toarray"`
	ID        int64
	UserName  string
	Email     string
	CreatedAt int64
}

// NewCachedRepository wraps next with a cache whose entries live for ttl.
func NewCachedRepository(ctx context.Context, next Repository, ttl time.Duration) (*CachedRepository, error) {
	cfg := bigcache.DefaultConfig(ttl)
	cfg.Verbose = false
	cache, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &CachedRepository{next: next, cache: cache}, nil
}

func searchKey(gen uint64, p models.SearchParams) string {
	return fmt.Sprintf("%d|%q|%d|%d|%s|%t", gen, p.Query, p.Limit, p.Offset, p.SortField, p.Ascending)
}

func (c *CachedRepository) Create(ctx context.Context, r *Record) (*Record, error) {
	rec, err := c.next.Create(ctx, r)
	if err == nil {
		c.gen.Add(1)
	}
	return rec, err
}

func (c *CachedRepository) GetByID(ctx context.Context, id int64) (*Record, error) {
	return c.next.GetByID(ctx, id)
}

func (c *CachedRepository) GetByLogin(ctx context.Context, login string) (*Record, error) {
	return c.next.GetByLogin(ctx, login)
}

func (c *CachedRepository) Delete(ctx context.Context, id int64) error {
	err := c.next.Delete(ctx, id)
	// bump even on error: the row may be gone despite a failed round trip
	c.gen.Add(1)
	return err
}

func (c *CachedRepository) Search(ctx context.Context, p models.SearchParams) ([]*Record, error) {
	key := searchKey(c.gen.Load(), p)

	if buf, err := c.cache.Get(key); err == nil {
		var page []cachedRecord
		if err := codec.Unmarshal(buf, &page); err == nil {
			out := make([]*Record, len(page))
			for i, cr := range page {
				out[i] = &Record{
					ID:        cr.ID,
					UserName:  cr.UserName,
					Email:     cr.Email,
					CreatedAt: time.Unix(0, cr.CreatedAt).UTC(),
				}
			}
			return out, nil
		}
		_ = c.cache.Delete(key)
	} else if !errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil, err
	}

	found, err := c.next.Search(ctx, p)
	if err != nil {
		return nil, err
	}
	page := make([]cachedRecord, len(found))
	for i, r := range found {
		page[i] = cachedRecord{ID: r.ID, UserName: r.UserName, Email: r.Email, CreatedAt: r.CreatedAt.UnixNano()}
	}
	if buf, err := codec.Marshal(page); err == nil {
		_ = c.cache.Set(key, buf)
	}
	return found, nil
}

// Close releases the cache.
func (c *CachedRepository) Close() error {
	return c.cache.Close()
}
