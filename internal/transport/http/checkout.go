package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/msoohome/storefront/internal/checkout"
)

type beginCheckoutRequest struct {
	DeliveryLocation string `json:"deliveryLocation"`
	Phone            string `json:"phone"`
}

func (s *Server) beginCheckout(c *gin.Context) {
	var req beginCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	identity := currentIdentity(c)
	engine := s.currentCart(c)
	key := c.GetHeader("Idempotency-Key")

	attempt, err := s.checkout.Begin(c.Request.Context(), key, *identity.User, engine, req.DeliveryLocation, req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAttemptDTO(attempt))
}

func (s *Server) getCheckout(c *gin.Context) {
	attempt, ok := s.ownedAttempt(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toAttemptDTO(attempt))
}

func (s *Server) confirmCheckout(c *gin.Context) {
	if _, ok := s.ownedAttempt(c); !ok {
		return
	}

	attempt, err := s.checkout.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAttemptDTO(attempt))
}

func (s *Server) retryCheckout(c *gin.Context) {
	if _, ok := s.ownedAttempt(c); !ok {
		return
	}

	attempt, err := s.checkout.Retry(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAttemptDTO(attempt))
}

func (s *Server) cancelCheckout(c *gin.Context) {
	if _, ok := s.ownedAttempt(c); !ok {
		return
	}

	attempt, err := s.checkout.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAttemptDTO(attempt))
}

// ownedAttempt loads the attempt and enforces that only its owner (or an
// administrator) can act on it.
func (s *Server) ownedAttempt(c *gin.Context) (checkout.Attempt, bool) {
	attempt, err := s.checkout.Attempt(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return checkout.Attempt{}, false
	}

	identity := currentIdentity(c)
	if attempt.User.ID != identity.User.ID && !identity.Admin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "attempt belongs to another user"})
		return checkout.Attempt{}, false
	}
	return attempt, true
}
