package workspace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"sunsite/internal/storage"

	"github.com/gofrs/uuid/v5"
)

// Draft is the in-memory working copy of a post's editable fields.
type Draft struct {
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content"`
	ImageURL  string `json:"image_url"`
	Published bool   `json:"published"`
}

// Editor owns one Draft and persists it as a single create-or-update
// decision. The saving and uploading flags are independent: a draft may be
// saved while an upload is still in flight, committing whatever image
// address the draft holds at that moment.
type Editor struct {
	posts   PostStore
	objects Uploader
	session SessionSource
	logger  *slog.Logger

	postID    int64 // 0 means create mode
	mu        sync.Mutex
	draft     Draft
	saving    atomic.Bool
	uploading atomic.Bool
}

// NewEditor opens an editor on an existing post (edit mode) or, with a nil
// post, on an empty draft (create mode).
func NewEditor(posts PostStore, objects Uploader, session SessionSource, logger *slog.Logger, post *storage.BlogPost) *Editor {
	e := &Editor{
		posts:   posts,
		objects: objects,
		session: session,
		logger:  logger,
	}

	if post != nil {
		e.postID = post.ID
		e.draft = Draft{
			Title:     post.Title,
			Excerpt:   post.Excerpt,
			Content:   post.Content,
			Published: post.Published,
		}
		if post.ImageURL != nil {
			e.draft.ImageURL = *post.ImageURL
		}
	}

	return e
}

func (e *Editor) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

func (e *Editor) SetDraft(d Draft) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = d
}

// PostID returns the id of the record being edited, 0 for an unsaved draft.
func (e *Editor) PostID() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.postID
}

func (e *Editor) Saving() bool    { return e.saving.Load() }
func (e *Editor) Uploading() bool { return e.uploading.Load() }

// Save validates the draft and persists it. A second Save while one is in
// flight returns ErrSaveInFlight without touching the store. On failure the
// draft is left intact so the user can correct and retry.
func (e *Editor) Save(ctx context.Context) (*storage.BlogPost, error) {
	if !e.saving.CompareAndSwap(false, true) {
		return nil, ErrSaveInFlight
	}
	defer e.saving.Store(false)

	d := e.Draft()

	if strings.TrimSpace(d.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(d.Content) == "" {
		return nil, ErrContentRequired
	}

	// the session got us here in the first place; losing it now is fatal
	// for this save, not something to silently work around
	authorID, err := e.session.CurrentUserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving author: %w", err)
	}

	fields := storage.PostFields{
		Title:     d.Title,
		Excerpt:   d.Excerpt,
		Content:   d.Content,
		Published: d.Published,
	}
	if d.ImageURL != "" {
		fields.ImageURL = &d.ImageURL
	}

	var saved *storage.BlogPost
	if id := e.PostID(); id != 0 {
		saved, err = e.posts.UpdatePost(ctx, id, fields)
	} else {
		saved, err = e.posts.CreatePost(ctx, fields, authorID)
	}
	if err != nil {
		return nil, fmt.Errorf("saving post: %w", err)
	}

	e.mu.Lock()
	e.postID = saved.ID
	e.mu.Unlock()

	e.logger.Info("post saved", "id", saved.ID, "published", saved.Published)
	return saved, nil
}

// UploadImage stores the file bytes under a fresh key and, on success,
// points the draft's image field at the object's public address. The
// already-persisted record is untouched until the next Save.
func (e *Editor) UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}

	if !e.uploading.CompareAndSwap(false, true) {
		return "", ErrUploadInFlight
	}
	defer e.uploading.Store(false)

	key := deriveImageKey(filename)

	if err := e.objects.Upload(ctx, key, body); err != nil {
		// draft image field unchanged on failure
		return "", fmt.Errorf("uploading image: %w", err)
	}

	url := e.objects.PublicURL(key)

	e.mu.Lock()
	e.draft.ImageURL = url
	e.mu.Unlock()

	e.logger.Info("image uploaded", "key", key)
	return url, nil
}

// ClearImage drops the draft's image address locally. The stored object is
// intentionally left behind.
func (e *Editor) ClearImage() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.ImageURL = ""
}

// deriveImageKey builds a collision-resistant key from the current time and
// a random suffix, preserving the original file extension.
func deriveImageKey(filename string) string {
	suffix := uuid.Must(uuid.NewV4()).String()[:8]
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("blog-images/%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}
