// Package workspace implements the content authoring and publication
// workflow behind the admin surface: the post editor with its image-upload
// side effect, the cached post list, and the contact-inquiry reviewer.
// Collaborators (relational store, object storage, session provider) are
// consumed through the narrow interfaces below.
package workspace

import (
	"context"
	"errors"
	"io"

	"sunsite/internal/storage"
)

type PostStore interface {
	ListPosts(ctx context.Context) ([]*storage.BlogPost, error)
	CreatePost(ctx context.Context, fields storage.PostFields, authorID int64) (*storage.BlogPost, error)
	UpdatePost(ctx context.Context, id int64, fields storage.PostFields) (*storage.BlogPost, error)
	SetPostPublished(ctx context.Context, id int64, published bool) (*storage.BlogPost, error)
	DeletePost(ctx context.Context, id int64) error
}

type InquiryStore interface {
	ListInquiries(ctx context.Context) ([]*storage.ContactInquiry, error)
	DeleteInquiry(ctx context.Context, id int64) error
}

// Uploader is the slice of object storage the editor needs.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader) error
	PublicURL(key string) string
}

// SessionSource resolves the acting user's identity. Implementations return
// ErrNoSession when no authenticated session exists.
type SessionSource interface {
	CurrentUserID(ctx context.Context) (int64, error)
}

var (
	ErrNoSession       = errors.New("no authenticated session")
	ErrSaveInFlight    = errors.New("save already in flight")
	ErrUploadInFlight  = errors.New("upload already in flight")
	ErrTitleRequired   = errors.New("title must not be empty")
	ErrContentRequired = errors.New("content must not be empty")
	ErrNotAnImage      = errors.New("file is not an image")
)
