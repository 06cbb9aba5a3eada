package domain

import (
	"context"
	"io"
	"strings"
)

// MediaKind distinguishes hosted asset types. The hosted service keeps photos
// and videos under separate namespaces, so deletion needs the kind back.
type MediaKind string

// Known media kinds.
const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// MediaRef is a reference to one hosted asset: the store-assigned identifier
// and its resolved URL.
type MediaRef struct {
	ID  string `bson:"_id" json:"_id"`
	URL string `bson:"url" json:"url"`
}

// KindForContentType classifies an upload by its caller-declared content type.
// File bytes are never inspected. The second return is false for content types
// that are neither image nor video; those uploads are skipped.
func KindForContentType(contentType string) (MediaKind, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return MediaPhoto, true
	case strings.HasPrefix(contentType, "video/"):
		return MediaVideo, true
	}
	return "", false
}

// MediaStore is the port to the hosted media service (the external
// collaborator that owns binary assets).
type MediaStore interface {
	// Upload stores the content and returns its identifier and URL.
	Upload(ctx context.Context, name string, content io.Reader, size int64, contentType string, kind MediaKind) (MediaRef, error)
	// Delete removes the asset. An already-gone asset is not an error.
	Delete(ctx context.Context, id string, kind MediaKind) error
}
