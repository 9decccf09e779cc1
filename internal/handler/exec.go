// Package handler provides HTTP handlers for the webshell API.
package handler

import (
	"net/http"

	"github.com/CageChen/webshell/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SessionCookie names the cookie carrying the terminal session id.
const SessionCookie = "webshell_session"

const sessionMaxAge = 30 * 24 * 60 * 60

// sessionFor returns the caller's session, issuing a cookie for new ones.
func sessionFor(c *gin.Context, sessions *session.Manager) *session.Session {
	id, _ := c.Cookie(SessionCookie)
	s := sessions.Get(id)
	if s.ID != id {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, s.ID, sessionMaxAge, "/", "", false, true)
	}
	return s
}

// ExecHandler runs terminal input lines over plain HTTP.
type ExecHandler struct {
	sessions *session.Manager
	log      logrus.FieldLogger
}

// NewExecHandler creates a new exec handler
func NewExecHandler(sessions *session.Manager, log logrus.FieldLogger) *ExecHandler {
	return &ExecHandler{sessions: sessions, log: log}
}

// ExecRequest represents one submitted input line
type ExecRequest struct {
	Line string `json:"line"`
}

// Exec runs a line in the caller's session
func (h *ExecHandler) Exec(c *gin.Context) {
	var req ExecRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request",
		})
		return
	}

	s := sessionFor(c, h.sessions)
	res := s.Execute(req.Line)
	if res.Command != "" {
		h.log.WithFields(logrus.Fields{
			"session": s.ID,
			"command": res.Command,
			"cwd":     res.Cwd,
			"failed":  res.Failed,
		}).Debug("command executed")
	}

	c.JSON(http.StatusOK, res)
}

// Cwd returns the caller's current directory
func (h *ExecHandler) Cwd(c *gin.Context) {
	s := sessionFor(c, h.sessions)
	c.JSON(http.StatusOK, gin.H{
		"cwd": s.Cwd(),
	})
}
