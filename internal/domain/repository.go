package domain

import "context"

// ProductRepository is the products collection of the persistent store.
type ProductRepository interface {
	// Insert stores a new product, assigning an ID when it is empty, and
	// returns the stored record.
	Insert(ctx context.Context, p Product) (Product, error)
	// InsertBatch stores several products atomically, assigning IDs, and
	// returns the stored records in input order.
	InsertBatch(ctx context.Context, ps []Product) ([]Product, error)
	// Get returns a product by ID or ErrProductNotFound.
	Get(ctx context.Context, id string) (Product, error)
	// List returns every product.
	List(ctx context.Context) ([]Product, error)
	// Update overwrites an existing product or returns ErrProductNotFound.
	Update(ctx context.Context, p Product) error
	// Delete removes a product or returns ErrProductNotFound.
	Delete(ctx context.Context, id string) error
}

// UserRepository is the users collection of the persistent store.
type UserRepository interface {
	// Create stores a new user keyed by its credential-service ID.
	Create(ctx context.Context, u User) error
	// Get returns a user by ID or ErrUserNotFound.
	Get(ctx context.Context, id string) (User, error)
	// List returns every user record.
	List(ctx context.Context) ([]User, error)
}

// OrderRepository is the orders collection of the persistent store.
type OrderRepository interface {
	// Insert stores a new order, assigns an ID when it is empty, and
	// returns the stored record.
	Insert(ctx context.Context, o Order) (Order, error)
	// Get returns an order by ID or ErrOrderNotFound.
	Get(ctx context.Context, id string) (Order, error)
	// List returns all orders, newest first.
	List(ctx context.Context) ([]Order, error)
	// ListByUser returns a user's orders, newest first, capped at limit
	// when limit > 0.
	ListByUser(ctx context.Context, userID string, limit int) ([]Order, error)
	// UpdateStatus sets the status of an existing order. The transition is
	// not validated for monotonicity.
	UpdateStatus(ctx context.Context, id string, status OrderStatus) error
}

// TimelineRepository stores order lifecycle events.
type TimelineRepository interface {
	Append(event TimelineEvent) error
	List(orderID string) ([]TimelineEvent, error)
}
