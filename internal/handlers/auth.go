package handlers

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"sunsite/internal/middleware"
	"sunsite/internal/storage"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (h *SiteHandler) HandleRegister() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// already logged in, nothing to do
		if h.Sessions.UserID(r.Context()) != 0 {
			h.jsonError(w, http.StatusConflict, "already logged in")
			return
		}

		var req credentialsRequest
		if err := strictDecode(r, &req); err != nil {
			h.BadRequest(w, "invalid request body")
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		if len(req.Username) < 3 || len(req.Password) < 8 {
			h.BadRequest(w, "username or password too short")
			return
		}

		hashedPwd, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.InternalError(w, r, err)
			return
		}

		user, err := h.DB.CreateUser(r.Context(), req.Username, string(hashedPwd))
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrUniqueViolation):
				h.jsonError(w, http.StatusConflict, "username already taken")
			default:
				h.InternalError(w, r, err)
			}
			return
		}

		h.writeJSON(w, http.StatusCreated, userResponse{ID: user.ID, Username: user.Username})
	})
}

func (h *SiteHandler) HandleLogin() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := strictDecode(r, &req); err != nil {
			h.BadRequest(w, "invalid request body")
			return
		}

		req.Username = strings.TrimSpace(req.Username)

		user, err := h.DB.GetUserByUsername(r.Context(), req.Username)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				h.jsonError(w, http.StatusUnauthorized, "invalid username or password")
			default:
				h.InternalError(w, r, err)
			}
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			h.jsonError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}

		// new token on privilege change prevents session fixation
		if err := h.Sessions.Manager.RenewToken(r.Context()); err != nil {
			h.InternalError(w, r, err)
			return
		}

		h.Sessions.Manager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)
		h.Sessions.Manager.Put(r.Context(), middleware.SessionKeyUsername, user.Username)

		h.Logger.Info("user logged in", "id", user.ID, "username", user.Username)

		h.writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Username: user.Username})
	})
}

type logoutResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// HandleLogout destroys the session. A destroy failure is reported in the
// body but the client still leaves the operator area, so the status stays 200.
func (h *SiteHandler) HandleLogout() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.Sessions.Manager.Destroy(r.Context()); err != nil {
			h.Logger.Error("destroy session", "err", err)
			h.writeJSON(w, http.StatusOK, logoutResponse{OK: false, Error: "logout failed"})
			return
		}

		h.Logger.Info("user logged out")
		h.writeJSON(w, http.StatusOK, logoutResponse{OK: true})
	})
}
