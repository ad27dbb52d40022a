package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserID = uuid.UUID
type DocID = uuid.UUID

type User struct {
	ID        UserID    `json:"id"`
	Login     string    `json:"login"`
	PassHash  []byte    `json:"-"` // never leaves the service
	CreatedAt time.Time `json:"created_at"`
}

// Document is a markdown file plus its metadata row. The markdown text
// itself lives in blob storage under StoragePath, not in the row.
type Document struct {
	ID       DocID  `json:"id"`
	OwnerID  UserID `json:"owner_id"`
	Alias    string `json:"alias,omitempty"` // optional display name
	FileName string `json:"file_name"`
	Public   bool   `json:"public"` // readable without auth

	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`

	SizeBytes int64  `json:"size_bytes"`
	SHA256    []byte `json:"-"` // content hash, feeds ETag
	Version   int64  `json:"-"` // bumped on every update

	// Blob storage key: "{owner_id}/{file_name}". Immutable once created.
	StoragePath string `json:"-"`
}

// Title is what clients display: the alias when set, the file name otherwise.
func (d Document) Title() string {
	if d.Alias != "" {
		return d.Alias
	}
	return d.FileName
}

// DocUpdate carries the mutable fields of a document. Nil pointer = keep.
// Content fields are set together when the markdown body changed.
type DocUpdate struct {
	Alias  *string
	Public *bool

	ContentChanged bool
	SizeBytes      int64
	SHA256         []byte
}
