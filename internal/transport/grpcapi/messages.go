package grpcapi

import (
	"time"

	"github.com/dmitrijs2005/credkeeper/internal/models"
)

// User is the wire form of models.User. It has no secret field.
type User struct {
	ID        string    `json:"id"`
	UserName  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func userToWire(u models.User) User {
	return User{ID: u.ID, UserName: u.UserName, Email: u.Email, CreatedAt: u.CreatedAt}
}

func userFromWire(u User) models.User {
	return models.User{ID: u.ID, UserName: u.UserName, Email: u.Email, CreatedAt: u.CreatedAt}
}

type Empty struct{}

type RegisterRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

type UserResponse struct {
	User User `json:"user"`
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type TokenLoginRequest struct {
	Token string `json:"token"`
}

type SearchRequest struct {
	Query      string `json:"query,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
	SortField  string `json:"sort,omitempty"`
	Descending bool   `json:"desc,omitempty"`
}

func (r *SearchRequest) params() models.SearchParams {
	return models.SearchParams{
		Query:     r.Query,
		Limit:     r.Limit,
		Offset:    r.Offset,
		SortField: r.SortField,
		Ascending: !r.Descending,
	}.Normalize()
}

type SearchResponse struct {
	Users []User `json:"users"`
}

type PingResponse struct {
	Status string `json:"status"`
}
