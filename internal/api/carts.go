package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"luxe-backend/internal/models"
)

func (s *Server) listCart(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusOK, []models.CartItem{})
		return
	}
	items, err := s.carts.ListByEmail(c.Request.Context(), email)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) addToCart(c *gin.Context) {
	var item models.CartItem
	if err := bindJSON(c, &item); err != nil {
		c.Error(err)
		return
	}
	res, err := s.carts.Create(c.Request.Context(), &item)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) removeCartItem(c *gin.Context) {
	res, err := s.carts.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}
