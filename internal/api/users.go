package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"luxe-backend/internal/models"
	"luxe-backend/internal/store"
)

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	for i := range users {
		users[i].Password = ""
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) checkAdmin(c *gin.Context) {
	p, _ := principalFrom(c)
	admin, err := p.IsAdmin(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": admin})
}

// createUser registers a user on first sign-in. Signing in again with the
// same email is a no-op.
func (s *Server) createUser(c *gin.Context) {
	var user models.User
	if err := bindJSON(c, &user); err != nil {
		c.Error(err)
		return
	}
	// roles are only granted through PATCH /users/admin/:id
	user.Role = ""
	if user.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			c.Error(err)
			return
		}
		user.Password = string(hashed)
	}

	res, err := s.users.Create(c.Request.Context(), &user)
	if errors.Is(err, store.ErrDuplicateEmail) {
		c.JSON(http.StatusOK, gin.H{"message": "user already existing", "insertedId": nil})
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) promoteUser(c *gin.Context) {
	res, err := s.users.PromoteToAdmin(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) deleteUser(c *gin.Context) {
	res, err := s.users.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}
