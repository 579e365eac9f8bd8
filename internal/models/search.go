package models

// Sort fields accepted by SearchParams.
const (
	SortByID        = "id"
	SortByUserName  = "username"
	SortByEmail     = "email"
	SortByCreatedAt = "created_at"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// SearchParams selects a page of users. Query matches username or email
// by substring; an empty query matches everyone.
type SearchParams struct {
	Query     string
	Limit     int
	Offset    int
	SortField string
	Ascending bool
}

// DefaultSearchParams returns the first page sorted by username ascending.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:     DefaultSearchLimit,
		SortField: SortByUserName,
		Ascending: true,
	}
}

// Normalize fills in defaults and clamps out-of-range values.
// Unknown sort fields fall back to username.
func (p SearchParams) Normalize() SearchParams {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultSearchLimit
	case p.Limit > MaxSearchLimit:
		p.Limit = MaxSearchLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	switch p.SortField {
	case SortByID, SortByUserName, SortByEmail, SortByCreatedAt:
	default:
		p.SortField = SortByUserName
	}
	return p
}
