package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"sunsite/internal/storage"
	"sunsite/internal/workspace"
)

type savePostRequest struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content"`
	ImageURL  string `json:"imageUrl"`
	Published bool   `json:"published"`
}

// HandleAdminListPosts serves the operator's post list, drafts included.
func (h *SiteHandler) HandleAdminListPosts() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.Posts.Posts(r.Context())
		if err != nil {
			h.InternalError(w, r, err)
			return
		}

		h.writeJSON(w, http.StatusOK, posts)
	})
}

// HandleAdminSavePost creates or updates a post. A zero id means create,
// a non-zero id targets the existing record.
func (h *SiteHandler) HandleAdminSavePost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req savePostRequest
		if err := strictDecode(r, &req); err != nil {
			h.BadRequest(w, "invalid request body")
			return
		}

		var existing *storage.BlogPost
		if req.ID != 0 {
			post, err := h.DB.GetPostByID(r.Context(), req.ID)
			if err != nil {
				switch {
				case errors.Is(err, storage.ErrNotFound):
					h.NotFound(w, r)
				default:
					h.InternalError(w, r, err)
				}
				return
			}
			existing = post
		}

		editor := workspace.NewEditor(h.DB, h.Objects, h.Session(), h.Logger, existing)
		editor.SetDraft(workspace.Draft{
			Title:     req.Title,
			Excerpt:   req.Excerpt,
			Content:   req.Content,
			ImageURL:  req.ImageURL,
			Published: req.Published,
		})

		saved, err := editor.Save(r.Context())
		if err != nil {
			switch {
			case errors.Is(err, workspace.ErrTitleRequired),
				errors.Is(err, workspace.ErrContentRequired):
				h.jsonError(w, http.StatusUnprocessableEntity, err.Error())
			case errors.Is(err, workspace.ErrNoSession):
				h.jsonError(w, http.StatusUnauthorized, "not logged in")
			case errors.Is(err, storage.ErrNotFound):
				h.NotFound(w, r)
			case errors.Is(err, storage.ErrCheckViolation):
				h.jsonError(w, http.StatusUnprocessableEntity, "post failed validation")
			default:
				h.InternalError(w, r, err)
			}
			return
		}

		h.Metrics.PostSavesTotal.Add(r.Context(), 1)

		// saves can change ordering, re-fetch the whole list
		if err := h.Posts.Refresh(r.Context()); err != nil {
			h.Logger.Error("refreshing post list after save", "err", err)
		}

		code := http.StatusOK
		if existing == nil {
			code = http.StatusCreated
		}
		h.writeJSON(w, code, saved)
	})
}

type togglePublishRequest struct {
	Published bool `json:"published"`
}

func (h *SiteHandler) HandleAdminTogglePublish() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			h.NotFound(w, r)
			return
		}

		var req togglePublishRequest
		if err := strictDecode(r, &req); err != nil {
			h.BadRequest(w, "invalid request body")
			return
		}

		post, err := h.Posts.TogglePublished(r.Context(), id, req.Published)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				h.NotFound(w, r)
			default:
				h.InternalError(w, r, err)
			}
			return
		}

		h.Metrics.PostTogglesTotal.Add(r.Context(), 1)
		h.writeJSON(w, http.StatusOK, post)
	})
}

// HandleAdminDeletePost removes a post for good. The client confirms the
// destructive step by sending confirm=true, anything else is refused.
func (h *SiteHandler) HandleAdminDeletePost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			h.NotFound(w, r)
			return
		}

		if r.URL.Query().Get("confirm") != "true" {
			h.BadRequest(w, "deletion requires confirm=true")
			return
		}

		if err := h.Posts.Delete(r.Context(), id); err != nil {
			h.InternalError(w, r, err)
			return
		}

		h.Metrics.PostDeletesTotal.Add(r.Context(), 1)
		h.Logger.Info("post deleted", "id", id)
		w.WriteHeader(http.StatusNoContent)
	})
}

const maxUploadBytes = 10 << 20 // 10 MiB

type uploadResponse struct {
	URL string `json:"url"`
}

// HandleAdminUploadImage stores a cover image and returns its public URL.
// The draft the image belongs to lives on the client, so the upload is
// independent of any post record.
func (h *SiteHandler) HandleAdminUploadImage() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

		file, header, err := r.FormFile("image")
		if err != nil {
			h.BadRequest(w, "missing image file")
			return
		}
		defer file.Close()

		editor := workspace.NewEditor(h.DB, h.Objects, h.Session(), h.Logger, nil)

		url, err := editor.UploadImage(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			switch {
			case errors.Is(err, workspace.ErrNotAnImage):
				h.jsonError(w, http.StatusUnsupportedMediaType, "only image uploads are accepted")
			default:
				h.InternalError(w, r, err)
			}
			return
		}

		h.Metrics.ImageUploadsTotal.Add(r.Context(), 1)
		h.Logger.Info("image uploaded", "filename", header.Filename, "url", url)
		h.writeJSON(w, http.StatusCreated, uploadResponse{URL: url})
	})
}

func (h *SiteHandler) HandleAdminListInquiries() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inquiries, err := h.Inquiries.Inquiries(r.Context())
		if err != nil {
			h.InternalError(w, r, err)
			return
		}

		h.writeJSON(w, http.StatusOK, inquiries)
	})
}

func (h *SiteHandler) HandleAdminDeleteInquiry() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			h.NotFound(w, r)
			return
		}

		if r.URL.Query().Get("confirm") != "true" {
			h.BadRequest(w, "deletion requires confirm=true")
			return
		}

		if err := h.Inquiries.Delete(r.Context(), id); err != nil {
			h.InternalError(w, r, err)
			return
		}

		h.Metrics.InquiryDeletesTotal.Add(r.Context(), 1)
		h.Logger.Info("inquiry deleted", "id", id)
		w.WriteHeader(http.StatusNoContent)
	})
}
