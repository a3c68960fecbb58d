package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listMyOrders(c *gin.Context) {
	identity := currentIdentity(c)

	orders, err := s.orders.ListByUser(c.Request.Context(), identity.User.ID, 0)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]orderDTO, 0, len(orders))
	for _, o := range orders {
		items = append(items, toOrderDTO(o))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) getOrder(c *gin.Context) {
	order, err := s.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	identity := currentIdentity(c)
	if order.User.ID != identity.User.ID && !identity.Admin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "order belongs to another user"})
		return
	}
	c.JSON(http.StatusOK, toOrderDTO(order))
}
