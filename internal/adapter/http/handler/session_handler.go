package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ressKim-io/hatecheck/internal/adapter/presenter"
	"github.com/ressKim-io/hatecheck/internal/domain/entity"
	"github.com/ressKim-io/hatecheck/internal/usecase"
)

// SessionHandler handles the session JSON API
type SessionHandler struct {
	sessionUC usecase.SessionUsecase
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionUC usecase.SessionUsecase) *SessionHandler {
	return &SessionHandler{sessionUC: sessionUC}
}

// SetInputRequest is the body of PUT /api/v1/sessions/:id/input.
// Text is a pointer so that an explicit empty string is accepted.
type SetInputRequest struct {
	Text *string `json:"text" binding:"required"`
}

// SessionResponse is the data returned by every session endpoint
type SessionResponse struct {
	SessionID uuid.UUID      `json:"session_id"`
	Input     string         `json:"input"`
	State     entity.State   `json:"state"`
	View      presenter.View `json:"view"`
}

func newSessionResponse(output *usecase.SessionOutput) SessionResponse {
	return SessionResponse{
		SessionID: output.SessionID,
		Input:     output.Input,
		State:     output.State,
		View:      presenter.Render(output.State, output.Input),
	}
}

// CreateSession handles POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	output, err := h.sessionUC.Create(c.Request.Context())
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, newSessionResponse(output))
}

// GetSession handles GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "session id")
		return
	}

	output, err := h.sessionUC.Get(c.Request.Context(), id)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, newSessionResponse(output))
}

// SetInput handles PUT /api/v1/sessions/:id/input
func (h *SessionHandler) SetInput(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "session id")
		return
	}

	var req SetInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.sessionUC.SetInput(c.Request.Context(), id, *req.Text)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, newSessionResponse(output))
}

// Submit handles POST /api/v1/sessions/:id/submit.
// It blocks until the classification settles. A failed classification is
// still a 200; the failure is carried in the session state.
func (h *SessionHandler) Submit(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "session id")
		return
	}

	output, err := h.sessionUC.Submit(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrSessionNotFound) || output == nil {
			HandleUsecaseError(c, err)
			return
		}
		errResp := MapUsecaseError(err)
		respondErrorWithData(c, errResp.StatusCode, errResp.Code, errResp.Message, newSessionResponse(output))
		return
	}

	respondSuccess(c, http.StatusOK, newSessionResponse(output))
}

// Reset handles POST /api/v1/sessions/:id/reset
func (h *SessionHandler) Reset(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "session id")
		return
	}

	output, err := h.sessionUC.Reset(c.Request.Context(), id)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, newSessionResponse(output))
}

// DeleteSession handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "session id")
		return
	}

	if err := h.sessionUC.Delete(c.Request.Context(), id); err != nil {
		HandleUsecaseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
