package domain

import (
	"context"
)

type ListSort string

const (
	SortByNameAsc     ListSort = "name_asc"
	SortByNameDesc    ListSort = "name_desc"
	SortByCreatedDesc ListSort = "created_desc"
	SortByCreatedAsc  ListSort = "created_asc"
)

// ListFilter narrows the visible set. Visibility itself (own + public)
// is decided by the repo from the requesting user.
type ListFilter struct {
	Login string // only documents owned by this login (within visibility)
	Key   string // filter column: "alias" | "file_name"
	Value string
	Limit int
	Sort  ListSort
}

type UsersRepo interface {
	Close()
	Ping(context.Context) error
	CreateUser(ctx context.Context, login string, passHash []byte) (User, error)
	UserByLogin(ctx context.Context, login string) (User, error)
	UserByID(ctx context.Context, id UserID) (User, error)
}

type DocsRepo interface {
	CreateDoc(ctx context.Context, meta Document) (Document, error)

	// DocByID applies the visibility rule: forUser == nil means an anonymous
	// request and only public documents resolve; otherwise owner OR public.
	DocByID(ctx context.Context, id DocID, forUser *User) (Document, error)

	// DocUpdate mutates alias/public and, when upd.ContentChanged, the
	// size/hash columns. Bumps version and updated_at. Owner-gated.
	DocUpdate(ctx context.Context, id DocID, owner UserID, upd DocUpdate) (Document, error)

	DocDelete(ctx context.Context, id DocID, owner UserID) error

	// DocsList returns own + public documents for me, or public only when
	// me == nil.
	DocsList(ctx context.Context, me *User, f ListFilter) ([]Document, error)
}
