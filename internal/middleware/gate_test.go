package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
)

// newTestSessions runs on scs's default in-memory store, the sqlite-backed
// store needs a real db handle.
func newTestSessions() *Sessions {
	sm := scs.New()
	sm.Lifetime = time.Hour
	return &Sessions{Manager: sm}
}

func TestRequireSessionRedirectsAnonymous(t *testing.T) {
	t.Parallel()

	sessions := newTestSessions()

	handlerCalls := 0
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
	})

	handler := sessions.Manager.LoadAndSave(sessions.RequireSession(inner))

	req := httptest.NewRequest("GET", "/admin/api/posts", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("want %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("want redirect to /login, got %q", loc)
	}
	// the gate must refuse before any handler work happens
	if handlerCalls != 0 {
		t.Errorf("protected handler ran for anonymous request, %d calls", handlerCalls)
	}
}

func TestRequireSessionPassesAuthenticated(t *testing.T) {
	t.Parallel()

	sessions := newTestSessions()

	// log in: a handler that stores the user id and hands back the cookie
	login := sessions.Manager.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessions.Manager.Put(r.Context(), SessionKeyUserID, int64(42))
	}))

	loginRec := httptest.NewRecorder()
	login.ServeHTTP(loginRec, httptest.NewRequest("POST", "/api/login", nil))

	cookies := loginRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login did not set a session cookie")
	}

	handlerCalls := 0
	var seenUserID int64
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
		seenUserID = sessions.UserID(r.Context())
	})

	handler := sessions.Manager.LoadAndSave(sessions.RequireSession(inner))

	req := httptest.NewRequest("GET", "/admin/api/posts", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want %d, got %d", http.StatusOK, rec.Code)
	}
	if handlerCalls != 1 {
		t.Fatalf("want 1 handler call, got %d", handlerCalls)
	}
	if seenUserID != 42 {
		t.Errorf("want user id 42 in session, got %d", seenUserID)
	}
}

func TestRequireSessionCutsOffDestroyedSession(t *testing.T) {
	t.Parallel()

	sessions := newTestSessions()

	login := sessions.Manager.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessions.Manager.Put(r.Context(), SessionKeyUserID, int64(42))
	}))
	loginRec := httptest.NewRecorder()
	login.ServeHTTP(loginRec, httptest.NewRequest("POST", "/api/login", nil))
	cookies := loginRec.Result().Cookies()

	// destroy the session out of band
	logout := sessions.Manager.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Manager.Destroy(r.Context()); err != nil {
			t.Errorf("destroy failed: %v", err)
		}
	}))
	logoutReq := httptest.NewRequest("POST", "/api/logout", nil)
	for _, c := range cookies {
		logoutReq.AddCookie(c)
	}
	logout.ServeHTTP(httptest.NewRecorder(), logoutReq)

	// the very next request with the old cookie is refused
	handlerCalls := 0
	handler := sessions.Manager.LoadAndSave(sessions.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
	})))

	req := httptest.NewRequest("GET", "/admin/api/posts", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("want %d after logout, got %d", http.StatusSeeOther, rec.Code)
	}
	if handlerCalls != 0 {
		t.Errorf("protected handler ran after session was destroyed")
	}
}
