package api

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"luxe-backend/internal/models"
	"luxe-backend/internal/token"
)

const principalKey = "principal"

// Principal is the authenticated caller of a request. Its stored user record
// is looked up at most once per request, on first use.
type Principal struct {
	Identity token.Identity

	users UserStore
	once  sync.Once
	user  *models.User
	err   error
}

// User returns the caller's stored user, or nil if none has the token's email.
func (p *Principal) User(ctx context.Context) (*models.User, error) {
	p.once.Do(func() {
		p.user, p.err = p.users.FindByEmail(ctx, p.Identity.Email)
	})
	return p.user, p.err
}

func (p *Principal) IsAdmin(ctx context.Context) (bool, error) {
	u, err := p.User(ctx)
	if err != nil {
		return false, err
	}
	return u.IsAdmin(), nil
}

func principalFrom(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok
}

func deny(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

// requireAuth admits requests carrying a valid bearer token.
func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		deny(c, errUnauthorized)
		return
	}

	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "bearer") {
		deny(c, errForbidden)
		return
	}

	id, err := s.tokens.Verify(fields[1])
	if err != nil {
		deny(c, &Error{Status: http.StatusForbidden, Message: errForbidden.Message, Err: err})
		return
	}

	c.Set(principalKey, &Principal{Identity: *id, users: s.users})
	c.Next()
}

// requireAdmin must follow requireAuth.
func (s *Server) requireAdmin(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		deny(c, errUnauthorized)
		return
	}
	admin, err := p.IsAdmin(c.Request.Context())
	if err != nil {
		deny(c, err)
		return
	}
	if !admin {
		deny(c, errForbidden)
		return
	}
	c.Next()
}

// requireSelf admits the caller only when the path parameter equals the
// caller's own email, whatever their role.
func (s *Server) requireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principalFrom(c)
		if !ok {
			deny(c, errUnauthorized)
			return
		}
		if c.Param(param) != p.Identity.Email {
			deny(c, errForbidden)
			return
		}
		c.Next()
	}
}

type tokenRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

func (s *Server) issueToken(c *gin.Context) {
	var req tokenRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	tok, err := s.tokens.Issue(token.Identity{Email: req.Email, Name: req.Name})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok})
}
