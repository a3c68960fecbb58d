package domain

import "errors"

var (
	// ErrProductNameRequired: a product must carry a display name.
	ErrProductNameRequired = errors.New("product name is required")
	// ErrProductPriceNegative: prices are non-negative minor units.
	ErrProductPriceNegative = errors.New("product price must be non-negative")
	// ErrProductCategoryInvalid: category outside Curtains/Beddings.
	ErrProductCategoryInvalid = errors.New("product category is invalid")
	// ErrProductNotFound is returned when a product ID is unknown.
	ErrProductNotFound = errors.New("product not found")

	// ErrUserEmailRequired: a user record must carry an email.
	ErrUserEmailRequired = errors.New("user email is required")
	// ErrUserNameRequired: a user record must carry a name.
	ErrUserNameRequired = errors.New("user name is required")
	// ErrUserRoleInvalid: role outside customer/admin.
	ErrUserRoleInvalid = errors.New("user role is invalid")
	// ErrUserNotFound is returned when no user record matches an ID.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned on duplicate user creation.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrOrderUserRequired: an order must snapshot its owner.
	ErrOrderUserRequired = errors.New("order user is required")
	// ErrOrderLinesRequired: an order must contain at least one line.
	ErrOrderLinesRequired = errors.New("order must contain at least one line")
	// ErrDeliveryLocationRequired: checkout requires a delivery location.
	ErrDeliveryLocationRequired = errors.New("delivery location is required")
	// ErrPhoneRequired: checkout requires a contact phone.
	ErrPhoneRequired = errors.New("contact phone is required")
	// ErrOrderStatusInvalid: status outside Processing/Shipped/Delivered.
	ErrOrderStatusInvalid = errors.New("order status is invalid")
	// ErrOrderTotalNegative: order totals are non-negative.
	ErrOrderTotalNegative = errors.New("order total must be non-negative")
	// ErrOrderTotalMismatch: stored total does not match the line sum.
	ErrOrderTotalMismatch = errors.New("order total does not match lines sum")
	// ErrLineQtyInvalid: a persisted line must have quantity > 0.
	ErrLineQtyInvalid = errors.New("line quantity must be greater than zero")
	// ErrOrderNotFound is returned when no order matches an ID.
	ErrOrderNotFound = errors.New("order not found")

	// ErrPaymentDeclined: the provider rejected the charge.
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrPaymentIndeterminate: the authorizer finished in an unknown state.
	ErrPaymentIndeterminate = errors.New("payment indeterminate state")

	// ErrIdempotencyKeyRequired: the idempotency key must be non-empty.
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	// ErrIdempotencyRequestHashRequired: the request hash must be non-empty.
	ErrIdempotencyRequestHashRequired = errors.New("idempotency request hash is required")
	// ErrIdempotencyKeyNotFound: no record stored under the key.
	ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")
	// ErrIdempotencyKeyAlreadyExists: the key was already registered.
	ErrIdempotencyKeyAlreadyExists = errors.New("idempotency key already exists")
	// ErrIdempotencyHashMismatch: same key, different request payload.
	ErrIdempotencyHashMismatch = errors.New("idempotency request hash mismatch")

	// ErrOutboxPublish: publishing an outbox message failed.
	ErrOutboxPublish = errors.New("outbox publish failed")
)
