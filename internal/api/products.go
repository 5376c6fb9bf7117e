package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"luxe-backend/internal/cache"
	"luxe-backend/internal/models"
)

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.products.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) searchProducts(c *gin.Context) {
	products, err := s.products.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// getProduct responds with null when the product does not exist.
func (s *Server) getProduct(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	cached, err := s.cache.Get(ctx, id)
	if err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn().Err(err).Str("product_id", id).Msg("product cache read failed")
	}

	product, err := s.products.Get(ctx, id)
	if err != nil {
		c.Error(err)
		return
	}
	if product == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	if err := s.cache.Set(ctx, id, product); err != nil {
		s.log.Warn().Err(err).Str("product_id", id).Msg("product cache write failed")
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) createProduct(c *gin.Context) {
	var product models.Product
	if err := bindJSON(c, &product); err != nil {
		c.Error(err)
		return
	}
	res, err := s.products.Create(c.Request.Context(), &product)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) updateProduct(c *gin.Context) {
	var product models.Product
	if err := bindJSON(c, &product); err != nil {
		c.Error(err)
		return
	}
	id := c.Param("id")
	res, err := s.products.Update(c.Request.Context(), id, &product)
	if err != nil {
		c.Error(err)
		return
	}
	s.evictProduct(c, id)
	c.JSON(http.StatusOK, res)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id := c.Param("id")
	res, err := s.products.Delete(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	s.evictProduct(c, id)
	c.JSON(http.StatusOK, res)
}

func (s *Server) evictProduct(c *gin.Context, id string) {
	if err := s.cache.Delete(c.Request.Context(), id); err != nil {
		s.log.Warn().Err(err).Str("product_id", id).Msg("product cache eviction failed")
	}
}
