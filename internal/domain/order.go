package domain

import "time"

// OrderStatus describes the fulfilment state of a placed order. Transitions
// are administrator-driven only; nothing advances a status automatically and
// monotonicity is deliberately not enforced.
type OrderStatus string

const (
	// OrderStatusProcessing is the status every order is created with.
	OrderStatusProcessing OrderStatus = "Processing"
	// OrderStatusShipped means an administrator marked the order dispatched.
	OrderStatusShipped OrderStatus = "Shipped"
	// OrderStatusDelivered means the order reached the customer.
	OrderStatusDelivered OrderStatus = "Delivered"
)

// Valid reports whether the status is one of the supported values.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// Order is the immutable record persisted at checkout. User and Lines are
// snapshots taken at placement time, not references; only Status may change
// afterwards.
type Order struct {
	ID               string
	User             User
	Lines            []CartLine
	TotalMinor       int64
	DeliveryLocation string
	Status           OrderStatus
	CreatedAt        time.Time
}

// ValidateInvariants checks the order invariants and returns every
// violation found.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.User.ID == "" {
		errs = append(errs, ErrOrderUserRequired)
	}
	if len(o.Lines) == 0 {
		errs = append(errs, ErrOrderLinesRequired)
	}
	if o.DeliveryLocation == "" {
		errs = append(errs, ErrDeliveryLocationRequired)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrOrderStatusInvalid)
	}
	if o.TotalMinor < 0 {
		errs = append(errs, ErrOrderTotalNegative)
	}

	// The stored total must match the line sum exactly.
	var calc int64
	for _, line := range o.Lines {
		if line.Quantity <= 0 {
			errs = append(errs, ErrLineQtyInvalid)
		}
		if line.Product.PriceMinor < 0 {
			errs = append(errs, ErrProductPriceNegative)
		}
		calc += line.LineTotal()
	}
	if calc != o.TotalMinor {
		errs = append(errs, ErrOrderTotalMismatch)
	}

	return errs
}

// TimelineEvent is one entry in an order's lifecycle history.
type TimelineEvent struct {
	OrderID  string
	Type     string
	Reason   string
	Occurred time.Time
}
