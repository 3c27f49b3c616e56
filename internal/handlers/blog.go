package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"sunsite/internal/storage"
)

const defaultPublicLimit = 6
const maxPublicLimit = 50

// HandleListPosts serves the public feed. Only published posts are
// visible, newest first.
func (h *SiteHandler) HandleListPosts() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := defaultPublicLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				h.BadRequest(w, "invalid limit")
				return
			}
			limit = min(n, maxPublicLimit)
		}

		posts, err := h.DB.ListPublishedPosts(r.Context(), int64(limit))
		if err != nil {
			h.InternalError(w, r, err)
			return
		}

		h.writeJSON(w, http.StatusOK, posts)
	})
}

func (h *SiteHandler) HandleGetPost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			h.NotFound(w, r)
			return
		}

		post, err := h.DB.GetPostByID(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				h.NotFound(w, r)
			default:
				h.InternalError(w, r, err)
			}
			return
		}

		// drafts are indistinguishable from missing posts to the public
		if !post.Published {
			h.NotFound(w, r)
			return
		}

		h.writeJSON(w, http.StatusOK, post)
	})
}
