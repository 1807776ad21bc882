package handler

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ressKim-io/hatecheck/internal/adapter/presenter"
	"github.com/ressKim-io/hatecheck/internal/usecase"
)

//go:embed templates/*.html
var templateFS embed.FS

const pageTemplate = "index.html"

// PageTemplates parses the embedded page templates for gin's HTML renderer
func PageTemplates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// PageHandler serves the single-page form bound to a cookie session
type PageHandler struct {
	sessionUC usecase.SessionUsecase
	logger    *zap.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(sessionUC usecase.SessionUsecase, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		sessionUC: sessionUC,
		logger:    logger,
	}
}

type pageData struct {
	Input string
	View  presenter.View
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	output, err := h.session(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, output)
}

// Submit handles POST /submit.
// The form text replaces the session input before submitting, and the
// browser is redirected back to the page once the submission settles.
func (h *PageHandler) Submit(c *gin.Context) {
	output, err := h.session(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.sessionUC.SetInput(ctx, output.SessionID, c.PostForm("text")); err != nil {
		h.fail(c, err)
		return
	}

	if _, err := h.sessionUC.Submit(ctx, output.SessionID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyInput),
			errors.Is(err, usecase.ErrSubmissionInFlight),
			errors.Is(err, usecase.ErrSubmissionSuperseded):
			h.logger.Debug("Submission not applied", zap.Error(err))
		default:
			h.fail(c, err)
			return
		}
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Reset handles POST /reset
func (h *PageHandler) Reset(c *gin.Context) {
	output, err := h.session(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	if _, err := h.sessionUC.Reset(c.Request.Context(), output.SessionID); err != nil {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// session returns the cookie's session, creating one when the cookie is
// missing or names a session that was evicted
func (h *PageHandler) session(c *gin.Context) (*usecase.SessionOutput, error) {
	ctx := c.Request.Context()

	if id, ok := SessionIDFromCookie(c); ok {
		output, err := h.sessionUC.Get(ctx, id)
		if err == nil {
			return output, nil
		}
		if !errors.Is(err, usecase.ErrSessionNotFound) {
			return nil, err
		}
	}

	output, err := h.sessionUC.Create(ctx)
	if err != nil {
		return nil, err
	}
	SetSessionCookie(c, output.SessionID)
	return output, nil
}

func (h *PageHandler) render(c *gin.Context, output *usecase.SessionOutput) {
	c.HTML(http.StatusOK, pageTemplate, pageData{
		Input: output.Input,
		View:  presenter.Render(output.State, output.Input),
	})
}

func (h *PageHandler) fail(c *gin.Context, err error) {
	h.logger.Error("Page request failed", zap.Error(err))
	errResp := MapUsecaseError(err)
	c.String(errResp.StatusCode, errResp.Message)
}
