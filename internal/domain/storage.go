package domain

import (
	"context"
	"io"
)

// BlobKey is the object-storage key for a document's markdown body.
func BlobKey(owner UserID, fileName string) string {
	return owner.String() + "/" + fileName
}

// BlobStorage keeps document bodies under stable keys so an update is a
// plain overwrite of the same object.
type BlobStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
