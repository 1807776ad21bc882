package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookie names the cookie that binds a browser to its session
const SessionCookie = "hatecheck_session"

// ExtractUUIDParam extracts and parses a UUID parameter from the URL path.
// Returns the parsed UUID or an error if the parameter is invalid.
func ExtractUUIDParam(c *gin.Context, param string) (uuid.UUID, error) {
	idStr := c.Param(param)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", param, err)
	}
	return id, nil
}

// SessionIDFromCookie returns the session ID carried by the request cookie, if any
func SessionIDFromCookie(c *gin.Context) (uuid.UUID, bool) {
	value, err := c.Cookie(SessionCookie)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// SetSessionCookie binds the browser to id for the lifetime of the browser session
func SetSessionCookie(c *gin.Context, id uuid.UUID) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id.String(), 0, "/", "", false, true)
}
