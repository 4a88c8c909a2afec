package cart

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/appetiteclub/bistro/internal/order"
)

func testCart() *Cart {
	return New(order.NewIDSource(), Options{
		Rand: rand.New(rand.NewSource(42)),
		Now:  func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) },
	})
}

func TestCartAddItemRejectsUnavailable(t *testing.T) {
	unavailable := fixtureItem("main-4", "64.99")
	unavailable.Available = false

	c := testCart()
	err := c.AddItem(unavailable, 1, "")
	if !errors.Is(err, ErrItemUnavailable) {
		t.Errorf("AddItem() error = %v, want ErrItemUnavailable", err)
	}
	if len(c.Lines()) != 0 {
		t.Errorf("AddItem() on unavailable item left %d lines", len(c.Lines()))
	}
}

func TestCartTotalsRecomputedOnMutation(t *testing.T) {
	ribeye := fixtureItem("main-1", "89.99")
	pasta := fixtureItem("main-3", "32.99")

	c := testCart()

	if err := c.AddItem(ribeye, 2, ""); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if err := c.AddItem(pasta, 1, ""); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	if got := c.TotalItems(); got != 3 {
		t.Errorf("TotalItems() = %d, want 3", got)
	}
	if want := decimal.RequireFromString("212.97"); !c.TotalAmount().Equal(want) {
		t.Errorf("TotalAmount() = %s, want %s", c.TotalAmount(), want)
	}

	if err := c.SetQuantity(ribeye.ID, 1); err != nil {
		t.Fatalf("SetQuantity() error = %v", err)
	}
	if want := decimal.RequireFromString("122.98"); !c.TotalAmount().Equal(want) {
		t.Errorf("TotalAmount() after SetQuantity = %s, want %s", c.TotalAmount(), want)
	}

	c.RemoveItem(pasta.ID)
	if want := decimal.RequireFromString("89.99"); !c.TotalAmount().Equal(want) {
		t.Errorf("TotalAmount() after RemoveItem = %s, want %s", c.TotalAmount(), want)
	}
}

func TestCartLineOperationsOnAbsentLines(t *testing.T) {
	c := testCart()
	ribeye := fixtureItem("main-1", "89.99")

	if err := c.SetQuantity(ribeye.ID, 2); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("SetQuantity() on absent line error = %v, want ErrLineNotFound", err)
	}
	if err := c.SetInstructions(ribeye.ID, "rare"); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("SetInstructions() on absent line error = %v, want ErrLineNotFound", err)
	}

	// RemoveItem on an absent line is explicitly not an error
	c.RemoveItem(ribeye.ID)
}

func TestCheckoutEmptyCart(t *testing.T) {
	c := testCart()

	placed, err := c.Checkout(context.Background(), "12", "Ada")
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("Checkout() error = %v, want ErrEmptyCart", err)
	}
	if placed != nil {
		t.Errorf("Checkout() on empty cart returned order %v", placed)
	}
}

func TestCheckoutBuildsOrder(t *testing.T) {
	ribeye := fixtureItem("main-1", "89.99")
	pasta := fixtureItem("main-3", "32.99")

	c := testCart()
	if err := c.AddItem(ribeye, 2, "medium rare"); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if err := c.AddItem(pasta, 1, ""); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	placed, err := c.Checkout(context.Background(), "12", "Ada")
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	if placed.Status != "pending" {
		t.Errorf("Checkout() status = %q, want %q", placed.Status, "pending")
	}
	if placed.TableNumber != "12" || placed.CustomerName != "Ada" {
		t.Errorf("Checkout() table/customer = %q/%q, want 12/Ada", placed.TableNumber, placed.CustomerName)
	}
	if len(placed.Lines) != 2 {
		t.Fatalf("Checkout() produced %d lines, want 2", len(placed.Lines))
	}
	if placed.Lines[0].Instructions != "medium rare" {
		t.Errorf("Checkout() line instructions = %q, want %q", placed.Lines[0].Instructions, "medium rare")
	}
	if want := decimal.RequireFromString("212.97"); !placed.TotalAmount.Equal(want) {
		t.Errorf("Checkout() TotalAmount = %s, want %s", placed.TotalAmount, want)
	}
	if !placed.UpdatedAt.Equal(placed.CreatedAt) {
		t.Errorf("Checkout() UpdatedAt = %v, want CreatedAt %v", placed.UpdatedAt, placed.CreatedAt)
	}
	if placed.EstimatedMinutes < EstimateBaseMinutes ||
		placed.EstimatedMinutes >= EstimateBaseMinutes+EstimateSpreadMinutes {
		t.Errorf("Checkout() EstimatedMinutes = %d, want within [15,30)", placed.EstimatedMinutes)
	}

	// Checkout clears the cart
	if len(c.Lines()) != 0 {
		t.Errorf("Checkout() left %d lines in cart", len(c.Lines()))
	}
	if !c.TotalAmount().IsZero() {
		t.Errorf("Checkout() left TotalAmount %s", c.TotalAmount())
	}
}

func TestCheckoutSnapshotIsolation(t *testing.T) {
	ribeye := fixtureItem("main-1", "89.99")
	pasta := fixtureItem("main-3", "32.99")

	c := testCart()
	if err := c.AddItem(ribeye, 2, ""); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	placed, err := c.Checkout(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	wantTotal := placed.TotalAmount

	// Mutating the cart after checkout must not reach the placed order
	if err := c.AddItem(pasta, 3, "extra parmesan"); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if err := c.AddItem(ribeye, 1, ""); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	c.Clear()

	if len(placed.Lines) != 1 {
		t.Fatalf("placed order now has %d lines, want 1", len(placed.Lines))
	}
	if placed.Lines[0].Quantity != 2 {
		t.Errorf("placed order quantity = %d, want 2", placed.Lines[0].Quantity)
	}
	if !placed.TotalAmount.Equal(wantTotal) {
		t.Errorf("placed order TotalAmount changed to %s", placed.TotalAmount)
	}
}

func TestCheckoutHonoursContext(t *testing.T) {
	ribeye := fixtureItem("main-1", "89.99")

	c := New(order.NewIDSource(), Options{
		CheckoutLatency: 50 * time.Millisecond,
		Rand:            rand.New(rand.NewSource(1)),
	})
	if err := c.AddItem(ribeye, 1, ""); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	placed, err := c.Checkout(ctx, "", "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Checkout() error = %v, want context.Canceled", err)
	}
	if placed != nil {
		t.Errorf("Checkout() returned order despite cancelled context")
	}

	// The cart must be untouched by the abandoned checkout
	if len(c.Lines()) != 1 {
		t.Errorf("abandoned Checkout() left %d lines, want 1", len(c.Lines()))
	}
}

func TestCheckoutIDsAreUnique(t *testing.T) {
	ribeye := fixtureItem("main-1", "89.99")
	c := testCart()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		if err := c.AddItem(ribeye, 1, ""); err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}
		placed, err := c.Checkout(context.Background(), "", "")
		if err != nil {
			t.Fatalf("Checkout() error = %v", err)
		}
		if seen[placed.ID] {
			t.Fatalf("duplicate order id %s", placed.ID)
		}
		seen[placed.ID] = true
	}
}
