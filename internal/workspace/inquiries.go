package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"sunsite/internal/storage"
)

// InquiryReviewer is the read-mostly sibling of PostList: it caches the
// contact-inquiry collection and supports delete-by-id. Inquiries are never
// edited; detail viewing is a projection of already-fetched data.
type InquiryReviewer struct {
	store  InquiryStore
	logger *slog.Logger

	mu        sync.Mutex
	inquiries []*storage.ContactInquiry
	loaded    bool
}

func NewInquiryReviewer(store InquiryStore, logger *slog.Logger) *InquiryReviewer {
	return &InquiryReviewer{
		store:  store,
		logger: logger,
	}
}

// Refresh fetches all inquiries, newest first, replacing the cache.
func (r *InquiryReviewer) Refresh(ctx context.Context) error {
	inquiries, err := r.store.ListInquiries(ctx)
	if err != nil {
		return fmt.Errorf("fetching inquiries: %w", err)
	}

	r.mu.Lock()
	r.inquiries = inquiries
	r.loaded = true
	r.mu.Unlock()

	return nil
}

// Inquiries returns a snapshot of the cached collection, fetching on first use.
func (r *InquiryReviewer) Inquiries(ctx context.Context) ([]*storage.ContactInquiry, error) {
	r.mu.Lock()
	loaded := r.loaded
	r.mu.Unlock()

	if !loaded {
		if err := r.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.inquiries), nil
}

// Delete removes the inquiry from the store and, on success, from the
// cache; on failure the cache is left unchanged.
func (r *InquiryReviewer) Delete(ctx context.Context, id int64) error {
	if err := r.store.DeleteInquiry(ctx, id); err != nil {
		return fmt.Errorf("deleting inquiry %d: %w", id, err)
	}

	r.mu.Lock()
	r.inquiries = slices.DeleteFunc(r.inquiries, func(i *storage.ContactInquiry) bool {
		return i.ID == id
	})
	r.mu.Unlock()

	r.logger.Info("inquiry deleted", "id", id)
	return nil
}
