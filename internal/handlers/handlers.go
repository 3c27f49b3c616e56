package handlers

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"sunsite/internal/email"
	"sunsite/internal/middleware"
	"sunsite/internal/storage"
	"sunsite/internal/telemetry"
	"sunsite/internal/workspace"
)

// SiteHandler holds the state shared by all HTTP handlers.
type SiteHandler struct {
	Title     string
	DB        storage.Store
	Objects   *storage.S3Store
	Sessions  *middleware.Sessions
	Posts     *workspace.PostList
	Inquiries *workspace.InquiryReviewer
	Email     email.Sender
	NotifyTo  string
	From      string
	Logger    *slog.Logger
	Metrics   *telemetry.Metrics
	Tracer    trace.Tracer
}

func NewSiteHandler(
	title string,
	db storage.Store,
	objects *storage.S3Store,
	sessions *middleware.Sessions,
	posts *workspace.PostList,
	inquiries *workspace.InquiryReviewer,
	sender email.Sender,
	notifyTo, from string,
	logger *slog.Logger,
	metrics *telemetry.Metrics,
	tracer trace.Tracer,
) *SiteHandler {
	return &SiteHandler{
		Title:     title,
		DB:        db,
		Objects:   objects,
		Sessions:  sessions,
		Posts:     posts,
		Inquiries: inquiries,
		Email:     sender,
		NotifyTo:  notifyTo,
		From:      from,
		Logger:    logger,
		Metrics:   metrics,
		Tracer:    tracer,
	}
}

// sessionSource adapts the scs-backed session to the workspace's
// SessionSource so the editor can resolve the author at save time.
type sessionSource struct {
	sessions *middleware.Sessions
}

func (s *sessionSource) CurrentUserID(ctx context.Context) (int64, error) {
	id := s.sessions.UserID(ctx)
	if id == 0 {
		return 0, workspace.ErrNoSession
	}
	return id, nil
}

// Session returns a workspace.SessionSource view of the request session.
func (h *SiteHandler) Session() workspace.SessionSource {
	return &sessionSource{sessions: h.Sessions}
}
