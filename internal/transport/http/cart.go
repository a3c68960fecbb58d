package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (s *Server) getCart(c *gin.Context) {
	engine := s.currentCart(c)
	c.JSON(http.StatusOK, toCartDTO(engine.Lines()))
}

func (s *Server) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}

	product, err := s.catalog.Product(c.Request.Context(), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}

	engine := s.currentCart(c)
	engine.AddItem(c.Request.Context(), product)
	c.JSON(http.StatusOK, toCartDTO(engine.Lines()))
}

func (s *Server) setCartQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}

	engine := s.currentCart(c)
	engine.SetQuantity(c.Request.Context(), c.Param("id"), *req.Quantity)
	c.JSON(http.StatusOK, toCartDTO(engine.Lines()))
}

func (s *Server) removeCartItem(c *gin.Context) {
	engine := s.currentCart(c)
	engine.RemoveItem(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, toCartDTO(engine.Lines()))
}

func (s *Server) clearCart(c *gin.Context) {
	engine := s.currentCart(c)
	engine.Clear(c.Request.Context())
	c.JSON(http.StatusOK, toCartDTO(engine.Lines()))
}
