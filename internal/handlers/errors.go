package handlers

import (
	"encoding/json"
	"net/http"
)

// writeJSON writes v as the JSON response body with the given status.
func (h *SiteHandler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("encoding response", "err", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *SiteHandler) jsonError(w http.ResponseWriter, code int, msg string) {
	h.writeJSON(w, code, errorResponse{Error: msg})
}

// InternalError logs the real error and returns a generic message so
// internal details never leak to the client.
func (h *SiteHandler) InternalError(w http.ResponseWriter, r *http.Request, err error) {
	h.Logger.Error("500 internal server error", "err", err, "path", r.URL.Path)
	h.jsonError(w, http.StatusInternalServerError, "internal server error")
}

func (h *SiteHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Logger.Warn("404 not found", "path", r.URL.Path, "method", r.Method, "ip", r.RemoteAddr)
	h.jsonError(w, http.StatusNotFound, "not found")
}

func (h *SiteHandler) BadRequest(w http.ResponseWriter, msg string) {
	h.jsonError(w, http.StatusBadRequest, msg)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
