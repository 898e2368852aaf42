package ports

import (
	"context"
	"io"
)

// PhotoUpload is a single file handed to a MediaStore.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MediaStore stores photos and returns a stable reference usable as a
// listing photo entry. Delete is idempotent: unknown references are not an
// error.
type MediaStore interface {
	Name() string
	Put(ctx context.Context, photo PhotoUpload) (string, error)
	Delete(ctx context.Context, ref string) error
}

// PhotoJanitor accepts photo references for best-effort removal. It never
// reports failures to the caller.
type PhotoJanitor interface {
	Discard(refs ...string)
}

type MediaService interface {
	Upload(ctx context.Context, photos []PhotoUpload) ([]string, error)
	Remove(ctx context.Context, ref string) error
}
