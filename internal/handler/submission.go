package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/studio-site/internal/mail"
	"github.com/iliyamo/studio-site/internal/metrics"
	"github.com/iliyamo/studio-site/internal/queue"
)

// Mailer sends notification emails.
type Mailer interface {
	Configured() bool
	Send(ctx context.Context, m mail.Message) (string, error)
}

// SubmissionPublisher receives accepted submissions.
type SubmissionPublisher interface {
	SubmissionReceived(ctx context.Context, ev queue.SubmissionReceivedEvent) error
}

// SubmissionHandler serves the public pitch and contact forms.
type SubmissionHandler struct {
	Mail      Mailer
	PitchTo   string
	ContactTo string
	Events    SubmissionPublisher
	Metrics   *metrics.Collector
	Log       *zap.Logger
}

type submissionReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Pitch   string `json:"pitch"`
	Message string `json:"message"`
}

// Pitch answers POST /api/pitch with body {name, email, pitch}.
func (h *SubmissionHandler) Pitch(c echo.Context) error {
	return h.submit(c, "pitch", h.PitchTo, func(r submissionReq) string { return r.Pitch })
}

// Contact answers POST /api/contact with body {name, email, message}.
func (h *SubmissionHandler) Contact(c echo.Context) error {
	return h.submit(c, "contact", h.ContactTo, func(r submissionReq) string { return r.Message })
}

func (h *SubmissionHandler) submit(c echo.Context, kind, to string, text func(submissionReq) string) error {
	var req submissionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required fields"})
	}
	sub := mail.Submission{
		Kind:    kind,
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(text(req)),
	}
	if sub.Name == "" || sub.Email == "" || sub.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required fields"})
	}

	if h.Mail == nil || !h.Mail.Configured() || to == "" {
		h.Log.Warn("submission: email service not configured", zap.String("kind", kind))
		h.accepted(sub, false, "")
		return c.JSON(http.StatusOK, echo.Map{
			"success":   true,
			"emailSent": false,
			"message":   "Email service not configured",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := h.Mail.Send(ctx, mail.Compose(sub, to))
	if err != nil {
		h.Log.Error("submission: send email failed", zap.String("kind", kind), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to send email"})
	}
	h.accepted(sub, true, id)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "emailSent": true, "id": id})
}

// accepted records the submission and publishes it without holding up the
// response.
func (h *SubmissionHandler) accepted(sub mail.Submission, sent bool, id string) {
	h.Metrics.Submission(sub.Kind, sent)
	if h.Events == nil {
		return
	}
	ev := queue.SubmissionReceivedEvent{
		Kind:       sub.Kind,
		Name:       sub.Name,
		Email:      sub.Email,
		Message:    sub.Message,
		EmailSent:  sent,
		EmailID:    id,
		ReceivedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.Events.SubmissionReceived(ctx, ev)
	}()
}
