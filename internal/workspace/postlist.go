package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"sunsite/internal/storage"
)

// PostList holds the workspace's cached copy of the post collection. The
// cache is the single source of truth for the admin list between fetches and
// is mutated only by its own success handlers and by Refresh.
type PostList struct {
	store  PostStore
	logger *slog.Logger

	mu     sync.Mutex
	posts  []*storage.BlogPost
	loaded bool
}

func NewPostList(store PostStore, logger *slog.Logger) *PostList {
	return &PostList{
		store:  store,
		logger: logger,
	}
}

// Refresh fetches the full collection, newest first, and replaces the cache.
// On failure the previous cache is kept.
func (l *PostList) Refresh(ctx context.Context) error {
	posts, err := l.store.ListPosts(ctx)
	if err != nil {
		return fmt.Errorf("fetching posts: %w", err)
	}

	l.mu.Lock()
	l.posts = posts
	l.loaded = true
	l.mu.Unlock()

	l.logger.Debug("post list refreshed", "count", len(posts))
	return nil
}

// Posts returns a snapshot of the cached collection, fetching it first if
// the list has never been loaded.
func (l *PostList) Posts(ctx context.Context) ([]*storage.BlogPost, error) {
	l.mu.Lock()
	loaded := l.loaded
	l.mu.Unlock()

	if !loaded {
		if err := l.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.posts), nil
}

// TogglePublished updates only the published flag of one record. On success
// the cached entry is replaced in place, keeping its position; the list is
// never re-sorted and never flips optimistically before confirmation.
func (l *PostList) TogglePublished(ctx context.Context, id int64, published bool) (*storage.BlogPost, error) {
	updated, err := l.store.SetPostPublished(ctx, id, published)
	if err != nil {
		return nil, fmt.Errorf("toggling publish on post %d: %w", id, err)
	}

	l.mu.Lock()
	for i, p := range l.posts {
		if p.ID == id {
			l.posts[i] = updated
			break
		}
	}
	l.mu.Unlock()

	l.logger.Info("post publish toggled", "id", id, "published", published)
	return updated, nil
}

// Delete removes the record from the store and, on success, from the cache.
// On failure the cache is left unchanged.
func (l *PostList) Delete(ctx context.Context, id int64) error {
	if err := l.store.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("deleting post %d: %w", id, err)
	}

	l.mu.Lock()
	l.posts = slices.DeleteFunc(l.posts, func(p *storage.BlogPost) bool {
		return p.ID == id
	})
	l.mu.Unlock()

	l.logger.Info("post deleted", "id", id)
	return nil
}
