package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/msoohome/storefront/internal/domain"
)

type productRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category" binding:"required"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type describeRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
}

func (s *Server) adminListOrders(c *gin.Context) {
	orders, err := s.orders.List(c.Request.Context())
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

func (s *Server) adminUpdateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	status := domain.OrderStatus(req.Status)
	if !status.Valid() {
		respondError(c, domain.ErrOrderStatusInvalid)
		return
	}

	id := c.Param("id")
	if err := s.orders.UpdateStatus(c.Request.Context(), id, status); err != nil {
		respondError(c, err)
		return
	}

	order, err := s.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	s.checkout.NoteStatusChange(order.ID, order.User.ID, status)

	c.JSON(http.StatusOK, toOrderDTO(order))
}

func (s *Server) adminOrderTimeline(c *gin.Context) {
	events, err := s.timeline.List(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": toTimelineDTO(events)})
}

func (s *Server) adminCreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and category are required"})
		return
	}

	stored, err := s.catalog.AddProduct(c.Request.Context(), domain.Product{
		Name:        req.Name,
		Description: req.Description,
		PriceMinor:  req.Price,
		ImageURL:    req.ImageURL,
		Category:    domain.Category(req.Category),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductDTO(stored))
}

func (s *Server) adminUpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and category are required"})
		return
	}

	updated, err := s.catalog.UpdateProduct(c.Request.Context(), domain.Product{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		PriceMinor:  req.Price,
		ImageURL:    req.ImageURL,
		Category:    domain.Category(req.Category),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductDTO(updated))
}

func (s *Server) adminDeleteProduct(c *gin.Context) {
	if err := s.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) adminDescribe(c *gin.Context) {
	var req describeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	text := s.describer.Describe(c.Request.Context(), req.Name, req.Category)
	c.JSON(http.StatusOK, gin.H{"description": text})
}

func (s *Server) adminListUsers(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]userDTO, 0, len(users))
	for _, u := range users {
		items = append(items, toUserDTO(u))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
