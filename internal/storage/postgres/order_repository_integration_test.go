package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/msoohome/storefront/internal/domain"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("expected 23505 to be a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "22001"}) {
		t.Error("22001 must not be a unique violation")
	}
	if isUniqueViolation(errors.New("plain error")) {
		t.Error("plain error must not be a unique violation")
	}
}

func TestOrderRepository_InsertAndGet_Integration(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)
	ctx := context.Background()

	order := domain.Order{
		User: domain.User{
			ID:    "user-1",
			Name:  "Jane Customer",
			Email: "jane@example.com",
			Phone: "+254700000001",
			Role:  domain.RoleCustomer,
		},
		Lines: []domain.CartLine{
			{
				Product: domain.Product{
					ID:         "1",
					Name:       "Luxury Velvet Curtains",
					PriceMinor: 4500,
					Category:   domain.CategoryCurtains,
				},
				Quantity: 2,
			},
		},
		TotalMinor:       9000,
		DeliveryLocation: "Nairobi",
		Status:           domain.OrderStatusProcessing,
	}

	stored, err := repo.Insert(ctx, order)
	if err != nil {
		t.Fatalf("insert order: %v", err)
	}
	if stored.ID == "" {
		t.Fatal("expected an assigned order ID")
	}

	got, err := repo.Get(ctx, stored.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if got.User.ID != "user-1" || got.TotalMinor != 9000 {
		t.Fatalf("unexpected order: %+v", got)
	}
	if len(got.Lines) != 1 || got.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected order lines: %+v", got.Lines)
	}
	if got.Lines[0].Product.Name != "Luxury Velvet Curtains" {
		t.Fatalf("unexpected line product: %+v", got.Lines[0].Product)
	}
}

func TestOrderRepository_ListByUser_Integration(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)
	ctx := context.Background()

	base := domain.Order{
		User: domain.User{
			ID:    "user-2",
			Name:  "John Customer",
			Email: "john@example.com",
			Role:  domain.RoleCustomer,
		},
		Lines: []domain.CartLine{
			{
				Product:  domain.Product{ID: "2", Name: "Premium Cotton Bedding Set", PriceMinor: 8999, Category: domain.CategoryBeddings},
				Quantity: 1,
			},
		},
		TotalMinor:       8999,
		DeliveryLocation: "Mombasa",
		Status:           domain.OrderStatusProcessing,
	}

	for i := 0; i < 3; i++ {
		o := base
		o.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
		if _, err := repo.Insert(ctx, o); err != nil {
			t.Fatalf("insert order %d: %v", i, err)
		}
	}

	orders, err := repo.ListByUser(ctx, "user-2", 2)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders with limit, got %d", len(orders))
	}
	if !orders[0].CreatedAt.After(orders[1].CreatedAt) {
		t.Fatal("expected newest-first ordering")
	}
}

func TestOrderRepository_UpdateStatus_Integration(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)
	ctx := context.Background()

	stored, err := repo.Insert(ctx, domain.Order{
		User:             domain.User{ID: "user-3", Name: "N", Email: "n@example.com", Role: domain.RoleCustomer},
		Lines:            []domain.CartLine{{Product: domain.Product{ID: "3", Name: "Blackout Roman Curtains", PriceMinor: 3200, Category: domain.CategoryCurtains}, Quantity: 1}},
		TotalMinor:       3200,
		DeliveryLocation: "Kisumu",
		Status:           domain.OrderStatusProcessing,
	})
	if err != nil {
		t.Fatalf("insert order: %v", err)
	}

	if err := repo.UpdateStatus(ctx, stored.ID, domain.OrderStatusShipped); err != nil {
		t.Fatalf("update status: %v", err)
	}

	got, err := repo.Get(ctx, stored.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if got.Status != domain.OrderStatusShipped {
		t.Fatalf("expected Shipped, got %s", got.Status)
	}

	if err := repo.UpdateStatus(ctx, "missing-order", domain.OrderStatusDelivered); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
