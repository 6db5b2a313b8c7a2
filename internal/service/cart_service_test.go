package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/checkout-next/internal/models"
)

func TestCartTotalTracksLineTotals(t *testing.T) {
	f := newCheckoutFixture(t, "cart_total")
	ctx := context.Background()
	f.createProduct(t, "Apple", "1.10", 20)
	f.createProduct(t, "Bread", "2.35", 20)
	const userID = uint(7)

	steps := []struct {
		name string
		run  func() (*models.Cart, error)
	}{
		{"add apple", func() (*models.Cart, error) { return f.carts.AddItem(ctx, userID, "Apple", 3) }},
		{"add bread", func() (*models.Cart, error) { return f.carts.AddItem(ctx, userID, "bread", 1) }},
		{"add apple again", func() (*models.Cart, error) { return f.carts.AddItem(ctx, userID, "APPLE", 2) }},
		{"increase bread", func() (*models.Cart, error) { return f.carts.IncreaseQuantity(ctx, userID, "Bread") }},
		{"decrease apple", func() (*models.Cart, error) { return f.carts.DecreaseQuantity(ctx, userID, "Apple") }},
		{"remove bread", func() (*models.Cart, error) { return f.carts.RemoveItem(ctx, userID, "Bread") }},
	}
	for _, step := range steps {
		cart, err := step.run()
		if err != nil {
			t.Fatalf("%s failed: %v", step.name, err)
		}
		assertCartTotalConsistent(t, cart)
	}

	cart, err := f.carts.GetCart(userID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 4 {
		t.Fatalf("unexpected final items: %+v", cart.Items)
	}
	if cart.TotalAmount.String() != "4.40" {
		t.Fatalf("cart total want 4.40 got %s", cart.TotalAmount)
	}
}

func TestDecreaseQuantityFromOneRemovesLine(t *testing.T) {
	f := newCheckoutFixture(t, "cart_decrease")
	ctx := context.Background()
	f.createProduct(t, "Milk", "3.00", 5)

	if _, err := f.carts.AddItem(ctx, 1, "Milk", 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	cart, err := f.carts.DecreaseQuantity(ctx, 1, "Milk")
	if err != nil {
		t.Fatalf("decrease failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("line should be removed, got %+v", cart.Items)
	}
	if !cart.TotalAmount.IsZero() {
		t.Fatalf("total should be zero, got %s", cart.TotalAmount)
	}
	if _, err := f.carts.DecreaseQuantity(ctx, 1, "Milk"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("decrease on missing line should be not found, got %v", err)
	}
}

func TestAddItemRejectsBeyondStock(t *testing.T) {
	f := newCheckoutFixture(t, "cart_stock")
	ctx := context.Background()
	f.createProduct(t, "Cheese", "6.50", 3)

	if _, err := f.carts.AddItem(ctx, 2, "Cheese", 4); !errors.Is(err, ErrInsufficientStock) || !errors.Is(err, ErrCartOperationRejected) {
		t.Fatalf("expected stock rejection, got %v", err)
	}
	if _, err := f.carts.AddItem(ctx, 2, "Cheese", 2); err != nil {
		t.Fatalf("add within stock failed: %v", err)
	}
	if _, err := f.carts.AddItem(ctx, 2, "Cheese", 2); !errors.Is(err, ErrCartOperationRejected) {
		t.Fatalf("cumulative quantity beyond stock should be rejected, got %v", err)
	}
	if _, err := f.carts.IncreaseQuantity(ctx, 2, "Cheese"); err != nil {
		t.Fatalf("increase to exact stock failed: %v", err)
	}
	if _, err := f.carts.IncreaseQuantity(ctx, 2, "Cheese"); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("increase beyond stock should be rejected, got %v", err)
	}
	cart, err := f.carts.GetCart(2)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if cart.Items[0].Quantity != 3 {
		t.Fatalf("quantity want 3 got %d", cart.Items[0].Quantity)
	}
	assertCartTotalConsistent(t, cart)
}

func TestAddItemValidation(t *testing.T) {
	f := newCheckoutFixture(t, "cart_validation")
	ctx := context.Background()
	f.createProduct(t, "Salt", "0.99", 10)

	cases := []struct {
		name     string
		userID   uint
		product  string
		quantity int
		want     error
	}{
		{"zero user", 0, "Salt", 1, ErrInvalidInput},
		{"zero quantity", 1, "Salt", 0, ErrInvalidInput},
		{"blank name", 1, "  ", 1, ErrInvalidInput},
		{"unknown product", 1, "Pepper", 1, ErrNotFound},
	}
	for _, tc := range cases {
		if _, err := f.carts.AddItem(ctx, tc.userID, tc.product, tc.quantity); !errors.Is(err, tc.want) {
			t.Fatalf("%s: want %v got %v", tc.name, tc.want, err)
		}
	}
	if _, err := f.carts.GetCart(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("no cart should be created by rejected adds, got %v", err)
	}
}

func TestClearCartAndReduceStockKeepsCartOnFailure(t *testing.T) {
	f := newCheckoutFixture(t, "cart_clear_fail")
	ctx := context.Background()
	apple := f.createProduct(t, "Apple", "1.00", 10)
	bread := f.createProduct(t, "Bread", "2.00", 10)

	if _, err := f.carts.AddItem(ctx, 3, "Apple", 2); err != nil {
		t.Fatalf("add apple failed: %v", err)
	}
	if _, err := f.carts.AddItem(ctx, 3, "Bread", 1); err != nil {
		t.Fatalf("add bread failed: %v", err)
	}
	f.inventoryCalls.failProduct(bread.ID, &DownstreamError{Service: "inventory", Err: errors.New("connection refused")})

	err := f.carts.ClearCartAndReduceStock(ctx, 3)
	if !errors.Is(err, ErrOperationFailed) || !errors.Is(err, ErrDownstreamUnavailable) {
		t.Fatalf("expected operation failed wrapping downstream error, got %v", err)
	}
	if got := f.inventoryCalls.reduceAttempts(); !reflect.DeepEqual(got, []uint{apple.ID, bread.ID}) {
		t.Fatalf("unexpected reduce attempts: %v", got)
	}
	cart, err := f.carts.GetCart(3)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("cart rows must survive a failed reduction, got %+v", cart.Items)
	}
	if f.stockOf(t, apple.ID) != 8 || f.stockOf(t, bread.ID) != 10 {
		t.Fatalf("unexpected stock: apple=%d bread=%d", f.stockOf(t, apple.ID), f.stockOf(t, bread.ID))
	}
}

func TestClearCartAndReduceStockEmptiesCart(t *testing.T) {
	f := newCheckoutFixture(t, "cart_clear_ok")
	ctx := context.Background()
	apple := f.createProduct(t, "Apple", "1.00", 10)

	if _, err := f.carts.AddItem(ctx, 4, "Apple", 4); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := f.carts.ClearCartAndReduceStock(ctx, 4); err != nil {
		t.Fatalf("clear and reduce failed: %v", err)
	}
	cart, err := f.carts.GetCart(4)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Items) != 0 || !cart.TotalAmount.IsZero() {
		t.Fatalf("cart should be empty, got items=%d total=%s", len(cart.Items), cart.TotalAmount)
	}
	if got := f.stockOf(t, apple.ID); got != 6 {
		t.Fatalf("stock want 6 got %d", got)
	}
}

func TestClearContentsOnlyLeavesStock(t *testing.T) {
	f := newCheckoutFixture(t, "cart_clear_only")
	ctx := context.Background()
	apple := f.createProduct(t, "Apple", "1.00", 10)

	if err := f.carts.ClearContentsOnly(ctx, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("clearing absent cart should be not found, got %v", err)
	}
	if _, err := f.carts.AddItem(ctx, 5, "Apple", 4); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := f.carts.ClearContentsOnly(ctx, 5); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	cart, err := f.carts.GetCart(5)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Items) != 0 || !cart.TotalAmount.IsZero() {
		t.Fatalf("cart should be empty after clear")
	}
	if got := f.stockOf(t, apple.ID); got != 10 {
		t.Fatalf("stock must be unchanged, got %d", got)
	}
	if len(f.inventoryCalls.reduceAttempts()) != 0 {
		t.Fatalf("clear contents must not touch inventory")
	}

	if err := f.carts.DeleteCart(cart.ID); err != nil {
		t.Fatalf("delete cart failed: %v", err)
	}
	if err := f.carts.DeleteCart(cart.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}
