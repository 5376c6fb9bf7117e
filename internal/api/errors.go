package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"luxe-backend/internal/store"
)

// Error is a failure with a client-facing status and message.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

var (
	errUnauthorized = &Error{Status: http.StatusUnauthorized, Message: "unauthorized access"}
	errForbidden    = &Error{Status: http.StatusForbidden, Message: "forbidden access"}
)

func badRequest(msg string, err error) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg, Err: err}
}

// bindJSON decodes the body into v and runs its binding rules.
func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return badRequest("invalid request body", err)
	}
	return nil
}

// errorHandler is the single place handler failures become responses.
// Handlers and gates record failures with c.Error and return.
func (s *Server) errorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	err := c.Errors.Last().Err

	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
	case errors.Is(err, store.ErrInvalidID):
		apiErr = badRequest("invalid id", err)
	default:
		apiErr = &Error{Status: http.StatusInternalServerError, Message: "internal server error", Err: err}
	}

	evt := s.log.Debug()
	if apiErr.Status >= http.StatusInternalServerError {
		evt = s.log.Error()
	}
	evt.Err(err).
		Str("request_id", c.GetString(requestIDKey)).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Int("status", apiErr.Status).
		Msg("request failed")

	body := gin.H{"message": apiErr.Message}
	if apiErr.Status == http.StatusBadRequest && apiErr.Err != nil {
		body["error"] = apiErr.Err.Error()
	}
	c.AbortWithStatusJSON(apiErr.Status, body)
}
