package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"luxe-backend/internal/models"
	"luxe-backend/internal/payment"
)

type intentRequest struct {
	Price float64 `json:"price" binding:"required,gt=0"`
}

func (s *Server) createPaymentIntent(c *gin.Context) {
	var req intentRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	secret, err := s.gateway.CreateIntent(c.Request.Context(), payment.ToCents(req.Price), payment.DefaultCurrency)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": secret})
}

func (s *Server) listPayments(c *gin.Context) {
	payments, err := s.payments.ListByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

const errCartIDs = "cartIds is missing or is not an array"

// createPayment stores the payment and deletes the cart items it settles.
// Nothing is written unless every cart id is well formed.
func (s *Server) createPayment(c *gin.Context) {
	var p models.Payment
	if err := c.ShouldBindJSON(&p); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "cartIds" {
			c.Error(badRequest(errCartIDs, err))
			return
		}
		c.Error(badRequest("invalid request body", err))
		return
	}
	if p.CartIDs == nil {
		c.Error(badRequest(errCartIDs, nil))
		return
	}

	res, err := s.payments.Create(c.Request.Context(), &p)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) listBookings(c *gin.Context) {
	bookings, err := s.payments.ListBookings(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

type statusUpdate struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed completed canceled"`
}

func (s *Server) updateBookingStatus(c *gin.Context) {
	var req statusUpdate
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	res, err := s.payments.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": res.ModifiedCount > 0, "status": req.Status})
}

func (s *Server) deleteBooking(c *gin.Context) {
	res, err := s.payments.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": res.DeletedCount > 0})
}
