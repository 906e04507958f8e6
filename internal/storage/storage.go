package storage

import (
	"context"
	"io"
)

// Uploader offloads presence-check photos to object storage so that
// multi-megabyte data URLs do not live inside session documents. When no
// uploader is configured the data URL is stored inline instead.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedURL string, err error)
}
