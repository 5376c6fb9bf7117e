package api

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// requestID reuses the caller's X-Request-ID or mints one.
func requestID(c *gin.Context) {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(requestIDKey, id)
	c.Header("X-Request-ID", id)
	c.Next()
}

func (s *Server) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()

	email := "anonymous"
	if p, ok := principalFrom(c); ok {
		email = p.Identity.Email
	}

	s.log.Info().
		Str("request_id", c.GetString(requestIDKey)).
		Str("method", c.Request.Method).
		Str("url", c.Request.URL.String()).
		Int("status", c.Writer.Status()).
		Dur("latency", time.Since(start)).
		Str("client_ip", c.ClientIP()).
		Str("email", email).
		Msg("request completed")
}

func (s *Server) recovery(c *gin.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error().
				Str("request_id", c.GetString(requestIDKey)).
				Str("method", c.Request.Method).
				Str("url", c.Request.URL.String()).
				Str("panic", fmt.Sprintf("%v", rec)).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		}
	}()
	c.Next()
}
