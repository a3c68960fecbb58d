package http

import (
	"time"

	"github.com/msoohome/storefront/internal/checkout"
	"github.com/msoohome/storefront/internal/domain"
)

type productDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
}

type cartLineDTO struct {
	productDTO
	Quantity  int   `json:"quantity"`
	LineTotal int64 `json:"lineTotal"`
}

type cartDTO struct {
	Items []cartLineDTO `json:"items"`
	Total int64         `json:"total"`
	Count int           `json:"count"`
}

type userDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

type orderDTO struct {
	ID               string        `json:"id"`
	User             userDTO       `json:"user"`
	Items            []cartLineDTO `json:"items"`
	Total            int64         `json:"total"`
	DeliveryLocation string        `json:"deliveryLocation"`
	Status           string        `json:"status"`
	CreatedAt        time.Time     `json:"createdAt"`
}

type attemptDTO struct {
	ID               string `json:"id"`
	Stage            string `json:"stage"`
	Total            int64  `json:"total"`
	DeliveryLocation string `json:"deliveryLocation"`
	Phone            string `json:"phone"`
	OrderID          string `json:"orderId,omitempty"`
	FailReason       string `json:"failReason,omitempty"`
}

type timelineEventDTO struct {
	Type     string    `json:"type"`
	Reason   string    `json:"reason,omitempty"`
	Occurred time.Time `json:"occurred"`
}

func toProductDTO(p domain.Product) productDTO {
	return productDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.PriceMinor,
		ImageURL:    p.ImageURL,
		Category:    string(p.Category),
	}
}

func toCartLineDTO(line domain.CartLine) cartLineDTO {
	return cartLineDTO{
		productDTO: toProductDTO(line.Product),
		Quantity:   line.Quantity,
		LineTotal:  line.LineTotal(),
	}
}

func toCartDTO(lines []domain.CartLine) cartDTO {
	items := make([]cartLineDTO, 0, len(lines))
	for _, line := range lines {
		items = append(items, toCartLineDTO(line))
	}
	return cartDTO{
		Items: items,
		Total: domain.CartTotal(lines),
		Count: domain.CartCount(lines),
	}
}

func toUserDTO(u domain.User) userDTO {
	return userDTO{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
		Role:  string(u.Role),
	}
}

func toOrderDTO(o domain.Order) orderDTO {
	items := make([]cartLineDTO, 0, len(o.Lines))
	for _, line := range o.Lines {
		items = append(items, toCartLineDTO(line))
	}
	return orderDTO{
		ID:               o.ID,
		User:             toUserDTO(o.User),
		Items:            items,
		Total:            o.TotalMinor,
		DeliveryLocation: o.DeliveryLocation,
		Status:           string(o.Status),
		CreatedAt:        o.CreatedAt,
	}
}

func toAttemptDTO(a checkout.Attempt) attemptDTO {
	return attemptDTO{
		ID:               a.ID,
		Stage:            a.Stage.String(),
		Total:            a.TotalMinor,
		DeliveryLocation: a.DeliveryLocation,
		Phone:            a.Phone,
		OrderID:          a.OrderID,
		FailReason:       a.FailReason,
	}
}

func toTimelineDTO(events []domain.TimelineEvent) []timelineEventDTO {
	out := make([]timelineEventDTO, 0, len(events))
	for _, event := range events {
		out = append(out, timelineEventDTO{
			Type:     event.Type,
			Reason:   event.Reason,
			Occurred: event.Occurred,
		})
	}
	return out
}
