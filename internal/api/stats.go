package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) adminStats(c *gin.Context) {
	stats, err := s.stats.AdminStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) orderStats(c *gin.Context) {
	stats, err := s.stats.OrderStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
