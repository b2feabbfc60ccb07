package media

import (
	"context"
	"io"
)

// ObjectStore is the bucket product images live in.
type ObjectStore interface {
	// Put stores the object under key, replacing any existing one, and returns its public URL.
	Put(ctx context.Context, in *PutInput) (string, error)
	// Delete removes the object behind a URL previously returned by Put.
	Delete(ctx context.Context, url string) error
}

type PutInput struct {
	Key         string
	ContentType string
	Size        int64
	Data        io.Reader
}
