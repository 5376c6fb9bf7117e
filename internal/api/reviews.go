package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"luxe-backend/internal/models"
)

func (s *Server) listReviews(c *gin.Context) {
	reviews, err := s.reviews.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (s *Server) listProductReviews(c *gin.Context) {
	reviews, err := s.reviews.ListByProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (s *Server) createReview(c *gin.Context) {
	var review models.Review
	if err := bindJSON(c, &review); err != nil {
		c.Error(err)
		return
	}
	res, err := s.reviews.Create(c.Request.Context(), &review)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type reviewEdit struct {
	Review string `json:"review" binding:"required"`
}

func (s *Server) updateReview(c *gin.Context) {
	var edit reviewEdit
	if err := bindJSON(c, &edit); err != nil {
		c.Error(err)
		return
	}
	res, err := s.reviews.UpdateText(c.Request.Context(), c.Param("id"), edit.Review)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) deleteReview(c *gin.Context) {
	res, err := s.reviews.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}
