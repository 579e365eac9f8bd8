package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/models"
)

// fakeRepo is an in-memory Repository for decorator and adapter tests.
type fakeRepo struct {
	mu       sync.Mutex
	rows     map[int64]Record
	next     int64
	getByID  int
	searches int
	failWith error

	// afterSearch runs once a Search result is read, outside the lock.
	afterSearch func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[int64]Record{}}
}

func (f *fakeRepo) Create(ctx context.Context, r *Record) (*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, row := range f.rows {
		if row.UserName == r.UserName {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.next++
	r.ID = f.next
	f.rows[r.ID] = *r
	return r, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getByID++
	if f.failWith != nil {
		return nil, f.failWith
	}
	row, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &row, nil
}

func (f *fakeRepo) GetByLogin(ctx context.Context, login string) (*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, row := range f.rows {
		if row.UserName == login || (row.Email != "" && row.Email == login) {
			r := row
			return &r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeRepo) Search(ctx context.Context, p models.SearchParams) ([]*Record, error) {
	f.mu.Lock()
	f.searches++
	if f.failWith != nil {
		f.mu.Unlock()
		return nil, f.failWith
	}
	out := make([]*Record, 0, len(f.rows))
	for id := int64(1); id <= f.next; id++ {
		if row, ok := f.rows[id]; ok {
			row.Secret = ""
			out = append(out, &row)
		}
	}
	hook := f.afterSearch
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}
