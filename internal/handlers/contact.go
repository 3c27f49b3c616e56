package handlers

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"sunsite/internal/email"
	"sunsite/internal/storage"
)

// HandleContact accepts a visitor inquiry. The record is the source of
// truth; the notification email is best effort and never fails the request.
func (h *SiteHandler) HandleContact() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var fields storage.InquiryFields
		if err := strictDecode(r, &fields); err != nil {
			h.BadRequest(w, "invalid request body")
			return
		}

		fields.Name = strings.TrimSpace(fields.Name)
		fields.Email = strings.TrimSpace(fields.Email)
		fields.Phone = strings.TrimSpace(fields.Phone)
		fields.Company = strings.TrimSpace(fields.Company)
		fields.Message = strings.TrimSpace(fields.Message)

		if fields.Name == "" || fields.Email == "" || fields.Message == "" {
			h.BadRequest(w, "name, email and message are required")
			return
		}
		if !strings.Contains(fields.Email, "@") {
			h.BadRequest(w, "invalid email address")
			return
		}

		inquiry, err := h.DB.CreateInquiry(r.Context(), fields)
		if err != nil {
			h.InternalError(w, r, err)
			return
		}

		h.Metrics.InquiriesTotal.Add(r.Context(), 1)
		h.Logger.Info("inquiry received", "id", inquiry.ID, "email", inquiry.Email)

		if h.NotifyTo != "" {
			go h.notifyInquiry(inquiry)
		}

		h.writeJSON(w, http.StatusCreated, inquiry)
	})
}

func (h *SiteHandler) notifyInquiry(inquiry *storage.ContactInquiry) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	body := fmt.Sprintf(
		"<p><strong>%s</strong> (%s) wrote:</p><p>%s</p>",
		html.EscapeString(inquiry.Name),
		html.EscapeString(inquiry.Email),
		html.EscapeString(inquiry.Message),
	)

	msg := email.Message{
		To:      []string{h.NotifyTo},
		Subject: fmt.Sprintf("New inquiry from %s", inquiry.Name),
		HTML:    body,
		ReplyTo: inquiry.Email,
	}

	if err := h.Email.Send(ctx, msg); err != nil {
		h.Logger.Error("sending inquiry notification", "err", err, "inquiry_id", inquiry.ID)
	}
}
