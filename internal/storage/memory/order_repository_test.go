package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msoohome/storefront/internal/domain"
	"github.com/msoohome/storefront/internal/storage/memory"
)

func orderFor(userID string, total int64, createdAt time.Time) domain.Order {
	return domain.Order{
		User: domain.User{ID: userID, Name: "Test", Email: userID + "@example.com", Role: domain.RoleCustomer},
		Lines: []domain.CartLine{
			{Product: domain.Product{ID: "p1", Name: "Sheer Curtains", PriceMinor: total}, Quantity: 1},
		},
		TotalMinor:       total,
		DeliveryLocation: "Nakuru",
		Status:           domain.OrderStatusProcessing,
		CreatedAt:        createdAt,
	}
}

func TestOrderRepository_InsertAndGet(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()

	stored, err := repo.Insert(ctx, orderFor("u1", 2500, time.Time{}))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if stored.ID == "" {
		t.Fatal("expected a generated order ID")
	}
	if stored.CreatedAt.IsZero() {
		t.Fatal("expected a creation timestamp")
	}

	got, err := repo.Get(ctx, stored.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.TotalMinor != 2500 || got.Status != domain.OrderStatusProcessing {
		t.Fatalf("unexpected order: %+v", got)
	}

	// Mutating the returned lines must not touch the stored snapshot.
	got.Lines[0].Quantity = 99
	again, _ := repo.Get(ctx, stored.ID)
	if again.Lines[0].Quantity != 1 {
		t.Fatalf("stored snapshot was mutated: %+v", again.Lines[0])
	}
}

func TestOrderRepository_ListNewestFirst(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := repo.Insert(ctx, orderFor("u1", int64(1000+i), base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	listed, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(listed))
	}
	for i := 1; i < len(listed); i++ {
		if listed[i].CreatedAt.After(listed[i-1].CreatedAt) {
			t.Fatalf("orders not sorted newest first: %v", listed)
		}
	}
}

func TestOrderRepository_ListByUserWithLimit(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		owner := "u1"
		if i%2 == 1 {
			owner = "u2"
		}
		if _, err := repo.Insert(ctx, orderFor(owner, 1000, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	mine, err := repo.ListByUser(ctx, "u1", 1)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected limit to apply, got %d orders", len(mine))
	}
	if mine[0].User.ID != "u1" {
		t.Fatalf("expected only u1 orders, got %+v", mine[0].User)
	}
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()

	stored, err := repo.Insert(ctx, orderFor("u1", 2500, time.Time{}))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := repo.UpdateStatus(ctx, stored.ID, domain.OrderStatusShipped); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	got, _ := repo.Get(ctx, stored.ID)
	if got.Status != domain.OrderStatusShipped {
		t.Fatalf("expected Shipped, got %s", got.Status)
	}

	// No monotonicity check: stepping back to Processing is allowed.
	if err := repo.UpdateStatus(ctx, stored.ID, domain.OrderStatusProcessing); err != nil {
		t.Fatalf("backward transition should be allowed, got %v", err)
	}

	if err := repo.UpdateStatus(ctx, stored.ID, domain.OrderStatus("Lost")); !errors.Is(err, domain.ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid, got %v", err)
	}
	if err := repo.UpdateStatus(ctx, "missing", domain.OrderStatusShipped); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
