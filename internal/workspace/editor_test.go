package workspace

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"sunsite/internal/storage"
)

type fakePostStore struct {
	mu          sync.Mutex
	createCalls int
	updateCalls int
	nextID      int64
	failWith    error

	listFn   func(ctx context.Context) ([]*storage.BlogPost, error)
	toggleFn func(ctx context.Context, id int64, published bool) (*storage.BlogPost, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (f *fakePostStore) ListPosts(ctx context.Context) ([]*storage.BlogPost, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakePostStore) CreatePost(ctx context.Context, fields storage.PostFields, authorID int64) (*storage.BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}

	f.nextID++
	post := &storage.BlogPost{
		ID:        f.nextID,
		Title:     fields.Title,
		Excerpt:   fields.Excerpt,
		Content:   fields.Content,
		ImageURL:  fields.ImageURL,
		Published: fields.Published,
		AuthorID:  authorID,
	}
	return post, nil
}

func (f *fakePostStore) UpdatePost(ctx context.Context, id int64, fields storage.PostFields) (*storage.BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updateCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}

	post := &storage.BlogPost{
		ID:        id,
		Title:     fields.Title,
		Excerpt:   fields.Excerpt,
		Content:   fields.Content,
		ImageURL:  fields.ImageURL,
		Published: fields.Published,
		AuthorID:  7,
	}
	return post, nil
}

func (f *fakePostStore) SetPostPublished(ctx context.Context, id int64, published bool) (*storage.BlogPost, error) {
	if f.toggleFn != nil {
		return f.toggleFn(ctx, id, published)
	}
	return nil, storage.ErrNotFound
}

func (f *fakePostStore) DeletePost(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakePostStore) calls() (creates, updates int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls, f.updateCalls
}

type fakeUploader struct {
	mu       sync.Mutex
	uploads  []string
	failWith error
	block    chan struct{} // when set, Upload waits until closed
}

func (f *fakeUploader) Upload(ctx context.Context, key string, body io.Reader) error {
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return f.failWith
	}
	f.uploads = append(f.uploads, key)
	return nil
}

func (f *fakeUploader) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func (f *fakeUploader) uploaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploads...)
}

type fakeSession struct {
	userID int64
	err    error
}

func (f *fakeSession) CurrentUserID(ctx context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.userID, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEditor(store *fakePostStore, uploader *fakeUploader, session *fakeSession, post *storage.BlogPost) *Editor {
	if store == nil {
		store = &fakePostStore{}
	}
	if uploader == nil {
		uploader = &fakeUploader{}
	}
	if session == nil {
		session = &fakeSession{userID: 42}
	}
	return NewEditor(store, uploader, session, discardLogger(), post)
}

func TestSaveValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		draft Draft
		want  error
	}{
		{
			name:  "empty title",
			draft: Draft{Title: "", Content: "body"},
			want:  ErrTitleRequired,
		},
		{
			name:  "whitespace title",
			draft: Draft{Title: "   \t", Content: "body"},
			want:  ErrTitleRequired,
		},
		{
			name:  "empty content",
			draft: Draft{Title: "title", Content: ""},
			want:  ErrContentRequired,
		},
		{
			name:  "whitespace content",
			draft: Draft{Title: "title", Content: "  \n "},
			want:  ErrContentRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &fakePostStore{}
			editor := newTestEditor(store, nil, nil, nil)
			editor.SetDraft(tt.draft)

			_, err := editor.Save(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}

			// validation failures must never reach the store
			creates, updates := store.calls()
			if creates != 0 || updates != 0 {
				t.Errorf("store called despite invalid draft: %d creates, %d updates", creates, updates)
			}

			if editor.Saving() {
				t.Error("saving flag stuck after refused save")
			}
		})
	}
}

func TestSaveCreatesWhenUnsaved(t *testing.T) {
	t.Parallel()

	store := &fakePostStore{}
	session := &fakeSession{userID: 42}
	editor := newTestEditor(store, nil, session, nil)
	editor.SetDraft(Draft{Title: "Hello", Content: "World"})

	saved, err := editor.Save(context.Background())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	creates, updates := store.calls()
	if creates != 1 || updates != 0 {
		t.Fatalf("want 1 create and 0 updates, got %d / %d", creates, updates)
	}

	if saved.AuthorID != 42 {
		t.Errorf("author must come from the session, got %d", saved.AuthorID)
	}
	if editor.PostID() != saved.ID {
		t.Errorf("editor should adopt the assigned id %d, got %d", saved.ID, editor.PostID())
	}
	if saved.ImageURL != nil {
		t.Errorf("empty image field should persist as absent, got %v", *saved.ImageURL)
	}
}

func TestSaveUpdatesExistingPost(t *testing.T) {
	t.Parallel()

	store := &fakePostStore{}
	existing := &storage.BlogPost{ID: 9, Title: "Old", Content: "old body"}
	editor := newTestEditor(store, nil, nil, existing)

	editor.SetDraft(Draft{Title: "New", Content: "new body", ImageURL: "https://cdn.example.com/x.png"})

	saved, err := editor.Save(context.Background())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	creates, updates := store.calls()
	if creates != 0 || updates != 1 {
		t.Fatalf("want 0 creates and 1 update, got %d / %d", creates, updates)
	}
	if saved.ID != 9 {
		t.Errorf("update must keep the id, got %d", saved.ID)
	}
	if saved.ImageURL == nil || *saved.ImageURL != "https://cdn.example.com/x.png" {
		t.Errorf("image url not carried through, got %v", saved.ImageURL)
	}
}

func TestSaveFailureKeepsDraft(t *testing.T) {
	t.Parallel()

	store := &fakePostStore{failWith: errors.New("disk full")}
	editor := newTestEditor(store, nil, nil, nil)

	draft := Draft{Title: "Keep", Content: "me around"}
	editor.SetDraft(draft)

	if _, err := editor.Save(context.Background()); err == nil {
		t.Fatal("expected save to fail")
	}

	if got := editor.Draft(); got != draft {
		t.Errorf("draft changed on failed save: %+v", got)
	}
	if editor.PostID() != 0 {
		t.Errorf("failed create must not assign an id, got %d", editor.PostID())
	}
	if editor.Saving() {
		t.Error("saving flag stuck after failed save")
	}

	// a retry goes through once the store recovers
	store.mu.Lock()
	store.failWith = nil
	store.mu.Unlock()

	if _, err := editor.Save(context.Background()); err != nil {
		t.Fatalf("retry after failure should succeed: %v", err)
	}
}

func TestSaveWithoutSession(t *testing.T) {
	t.Parallel()

	store := &fakePostStore{}
	session := &fakeSession{err: ErrNoSession}
	editor := newTestEditor(store, nil, session, nil)
	editor.SetDraft(Draft{Title: "t", Content: "c"})

	_, err := editor.Save(context.Background())
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("want ErrNoSession, got %v", err)
	}

	creates, updates := store.calls()
	if creates != 0 || updates != 0 {
		t.Errorf("store called without a session: %d creates, %d updates", creates, updates)
	}
}

func TestDoubleSaveRefused(t *testing.T) {
	t.Parallel()

	editor := newTestEditor(nil, nil, nil, nil)
	editor.SetDraft(Draft{Title: "t", Content: "c"})

	// simulate an in-flight save
	if !editor.saving.CompareAndSwap(false, true) {
		t.Fatal("could not arm saving flag")
	}

	_, err := editor.Save(context.Background())
	if !errors.Is(err, ErrSaveInFlight) {
		t.Fatalf("want ErrSaveInFlight, got %v", err)
	}

	editor.saving.Store(false)
	if _, err := editor.Save(context.Background()); err != nil {
		t.Fatalf("save after flag cleared should succeed: %v", err)
	}
}

func TestUploadRejectsNonImages(t *testing.T) {
	t.Parallel()

	uploader := &fakeUploader{}
	editor := newTestEditor(nil, uploader, nil, nil)

	_, err := editor.UploadImage(context.Background(), "notes.txt", "text/plain", strings.NewReader("hello"))
	if !errors.Is(err, ErrNotAnImage) {
		t.Fatalf("want ErrNotAnImage, got %v", err)
	}

	// the refusal happens before any bytes move
	if got := uploader.uploaded(); len(got) != 0 {
		t.Errorf("non-image reached storage: %v", got)
	}
	if editor.Uploading() {
		t.Error("uploading flag stuck after refused upload")
	}
}

func TestUploadSetsDraftImage(t *testing.T) {
	t.Parallel()

	uploader := &fakeUploader{}
	editor := newTestEditor(nil, uploader, nil, nil)

	url, err := editor.UploadImage(context.Background(), "Cover Photo.PNG", "image/png", strings.NewReader("pngbytes"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	keys := uploader.uploaded()
	if len(keys) != 1 {
		t.Fatalf("want 1 upload, got %d", len(keys))
	}

	key := keys[0]
	if !strings.HasPrefix(key, "blog-images/") {
		t.Errorf("key missing prefix: %q", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("extension not preserved lowercase: %q", key)
	}

	if want := "https://cdn.example.com/" + key; url != want {
		t.Errorf("want %q, got %q", want, url)
	}
	if got := editor.Draft().ImageURL; got != url {
		t.Errorf("draft image not updated: %q", got)
	}
}

func TestUploadKeysAreUnique(t *testing.T) {
	t.Parallel()

	uploader := &fakeUploader{}
	editor := newTestEditor(nil, uploader, nil, nil)

	for range 5 {
		if _, err := editor.UploadImage(context.Background(), "a.png", "image/png", strings.NewReader("x")); err != nil {
			t.Fatalf("upload failed: %v", err)
		}
	}

	seen := make(map[string]bool)
	for _, key := range uploader.uploaded() {
		if seen[key] {
			t.Fatalf("duplicate key %q", key)
		}
		seen[key] = true
	}
}

func TestUploadFailureLeavesDraftImage(t *testing.T) {
	t.Parallel()

	uploader := &fakeUploader{failWith: errors.New("network down")}
	editor := newTestEditor(nil, uploader, nil, nil)
	editor.SetDraft(Draft{Title: "t", Content: "c", ImageURL: "https://cdn.example.com/previous.png"})

	_, err := editor.UploadImage(context.Background(), "new.png", "image/png", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected upload to fail")
	}

	if got := editor.Draft().ImageURL; got != "https://cdn.example.com/previous.png" {
		t.Errorf("failed upload must not touch the draft image, got %q", got)
	}
	if editor.Uploading() {
		t.Error("uploading flag stuck after failed upload")
	}
}

func TestConcurrentUploadRefused(t *testing.T) {
	t.Parallel()

	uploader := &fakeUploader{block: make(chan struct{})}
	editor := newTestEditor(nil, uploader, nil, nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := editor.UploadImage(context.Background(), "a.png", "image/png", strings.NewReader("x"))
		firstDone <- err
	}()

	// wait for the first upload to arm the flag
	for !editor.Uploading() {
		time.Sleep(time.Millisecond)
	}

	_, err := editor.UploadImage(context.Background(), "b.png", "image/png", strings.NewReader("y"))
	if !errors.Is(err, ErrUploadInFlight) {
		t.Fatalf("want ErrUploadInFlight, got %v", err)
	}

	close(uploader.block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first upload failed: %v", err)
	}
}

func TestClearImage(t *testing.T) {
	t.Parallel()

	editor := newTestEditor(nil, nil, nil, &storage.BlogPost{
		ID:      3,
		Title:   "t",
		Content: "c",
	})
	editor.SetDraft(Draft{Title: "t", Content: "c", ImageURL: "https://cdn.example.com/x.png"})

	editor.ClearImage()

	if got := editor.Draft().ImageURL; got != "" {
		t.Errorf("image field should be empty, got %q", got)
	}
}
