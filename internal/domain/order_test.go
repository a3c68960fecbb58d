package domain

import (
	"errors"
	"testing"
	"time"
)

func validOrder() Order {
	return Order{
		ID: "order-1",
		User: User{
			ID:    "user-1",
			Name:  "Wanjiru",
			Email: "wanjiru@example.com",
			Role:  RoleCustomer,
		},
		Lines: []CartLine{
			{Product: Product{ID: "1", Name: "Luxury Velvet Curtains", PriceMinor: 4500, Category: CategoryCurtains}, Quantity: 1},
			{Product: Product{ID: "2", Name: "Egyptian Cotton Bedding Set", PriceMinor: 8999, Category: CategoryBeddings}, Quantity: 2},
		},
		TotalMinor:       22498,
		DeliveryLocation: "Nairobi",
		Status:           OrderStatusProcessing,
		CreatedAt:        time.Now().UTC(),
	}
}

func TestOrderValidateInvariants_Valid(t *testing.T) {
	order := validOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no violations, got %v", errs)
	}
}

func TestOrderValidateInvariants_TotalMismatch(t *testing.T) {
	order := validOrder()
	order.TotalMinor = 100

	errs := order.ValidateInvariants()
	if len(errs) != 1 {
		t.Fatalf("expected exactly one violation, got %v", errs)
	}
	if !errors.Is(errs[0], ErrOrderTotalMismatch) {
		t.Fatalf("expected ErrOrderTotalMismatch, got %v", errs[0])
	}
}

func TestOrderValidateInvariants_MissingFields(t *testing.T) {
	order := Order{Status: OrderStatus("Packed")}

	errs := order.ValidateInvariants()
	want := []error{
		ErrOrderUserRequired,
		ErrOrderLinesRequired,
		ErrDeliveryLocationRequired,
		ErrOrderStatusInvalid,
	}
	for _, expected := range want {
		found := false
		for _, err := range errs {
			if errors.Is(err, expected) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected %v among violations %v", expected, errs)
		}
	}
}

func TestOrderValidateInvariants_BadLineQty(t *testing.T) {
	order := validOrder()
	order.Lines[0].Quantity = 0
	order.TotalMinor = CartTotal(order.Lines)

	errs := order.ValidateInvariants()
	if len(errs) != 1 || !errors.Is(errs[0], ErrLineQtyInvalid) {
		t.Fatalf("expected ErrLineQtyInvalid, got %v", errs)
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered} {
		if !s.Valid() {
			t.Fatalf("status %q should be valid", s)
		}
	}
	if OrderStatus("Returned").Valid() {
		t.Fatal("unknown status should be invalid")
	}
}
