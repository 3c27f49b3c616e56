package middleware

import (
	"net/http"
)

// RequireSession guards the operator surface. The check runs on every
// request, so a session that expires or is destroyed mid-visit cuts off
// the very next request. Requests without a session are redirected to the
// login page before any handler work happens.
func (s *Sessions) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.UserID(r.Context()) == 0 {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}
