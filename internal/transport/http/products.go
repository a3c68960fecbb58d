package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.catalog.Products(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]productDTO, 0, len(products))
	for _, p := range products {
		items = append(items, toProductDTO(p))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) getProduct(c *gin.Context) {
	p, err := s.catalog.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductDTO(p))
}
