package handler

import (
	"context"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"activityboard/internal/app/dto"
	"activityboard/internal/app/session"
	"activityboard/internal/board"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// Index renders the caller's board, creating a session on first visit.
func (h *Handler) Index(c *gin.Context) {
	s := h.session(c)
	h.render(c, http.StatusOK, boardPage, boardPageData{
		Board: template.HTML(s.Page.Current().HTML),
	})
}

// Fragment returns only the board markup.
func (h *Handler) Fragment(c *gin.Context) {
	s := h.session(c)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(s.Page.Current().HTML))
}

// Events streams every re-render of the caller's board as an SSE "board" event.
func (h *Handler) Events(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		h.writeError(c, errSessionNotFound)
		return
	}

	frames, cancel := s.Page.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.SSEvent("board", s.Page.Current().HTML)
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case f := <-frames:
			c.SSEvent("board", f.HTML)
			return true
		}
	})
}

func (h *Handler) Signup(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	activityName := c.PostForm("activity")

	s := h.session(c)
	if msg := signupFormError(email, activityName); msg != "" {
		s.Board.RejectSignup(email, activityName, msg)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	if err := s.Board.SubmitSignup(actionContext(c), email, activityName); err != nil {
		h.Log.Debug("signup settled with failure", zap.String("session", s.ID), zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Remove performs a confirmed removal. Unconfirmed submissions are sent to
// the confirmation page first.
func (h *Handler) Remove(c *gin.Context) {
	activityName := c.PostForm("activity")
	email := c.PostForm("email")
	confirmed := c.PostForm("confirmed") == "yes"

	if !confirmed {
		q := url.Values{"activity": {activityName}, "email": {email}}
		c.Redirect(http.StatusSeeOther, "/remove/confirm?"+q.Encode())
		return
	}

	s := h.session(c)
	if err := s.Board.RemoveParticipant(actionContext(c), activityName, email, formConfirmer(confirmed)); err != nil {
		h.Log.Debug("removal settled with failure", zap.String("session", s.ID), zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) ConfirmRemove(c *gin.Context) {
	activityName := c.Query("activity")
	email := c.Query("email")
	if activityName == "" || email == "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	h.render(c, http.StatusOK, confirmPage, confirmPageData{
		Prompt:   board.RemovalPrompt(activityName, email),
		Activity: activityName,
		Email:    email,
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	s := h.session(c)
	_ = s.Board.LoadActivities(actionContext(c))
	c.Redirect(http.StatusSeeOther, "/")
}

// session returns the caller's session, creating one and scheduling its first
// catalog load when the cookie is missing or stale.
func (h *Handler) session(c *gin.Context) *session.Session {
	if s, ok := h.lookup(c); ok {
		return s
	}

	s := h.Sessions.Create()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, s.ID, 0, "/", "", false, true)

	load := func(ctx context.Context) { _ = s.Board.LoadActivities(ctx) }
	if !h.Pool.TrySubmit(load) {
		// never block the request on a saturated pool
		h.Log.Warn("initial load not pooled", zap.String("session", s.ID))
		go load(actionContext(c))
	}
	return s
}

func signupFormError(email, activityName string) string {
	switch {
	case email == "":
		return "Please enter your email."
	case activityName == "":
		return "Please select an activity."
	}
	return ""
}

func (h *Handler) lookup(c *gin.Context) (*session.Session, bool) {
	id, err := c.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	return h.Sessions.Get(id)
}

func (h *Handler) render(c *gin.Context, status int, tmpl *template.Template, data any) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := tmpl.Execute(c.Writer, data); err != nil {
		h.Log.Error("render page", zap.String("template", tmpl.Name()), zap.Error(err))
	}
}

// actionContext keeps a board action running to settlement even if the
// browser abandons the request.
func actionContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

type formConfirmer bool

func (f formConfirmer) Confirm(context.Context, string) bool { return bool(f) }
