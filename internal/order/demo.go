package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/shopspring/decimal"

	"github.com/appetiteclub/bistro/internal/menu"
	"github.com/appetiteclub/bistro/pkg/enums/orderstatus"
)

// ApplyDemoSeeds pre-populates the store with representative orders so the
// kitchen board and dashboard have something to show on first load. Seeding
// is idempotent per process: already present orders are left alone.
func ApplyDemoSeeds(ctx context.Context, store *Store, catalog *menu.Catalog, logger apt.Logger) error {
	if store == nil {
		return errors.New("store is required for demo seeding")
	}
	if catalog == nil {
		return errors.New("catalog is required for demo seeding")
	}
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	orders, err := buildDemoOrders(catalog)
	if err != nil {
		return err
	}

	var applied int
	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := store.Insert(order); err != nil {
			if errors.Is(err, ErrOrderExists) {
				continue
			}
			return fmt.Errorf("insert demo order %s: %w", order.ID, err)
		}
		applied++
	}

	logger.Info("demo order seeds applied", "count", applied)
	return nil
}

func buildDemoOrders(catalog *menu.Catalog) ([]*Order, error) {
	ribeye, err := catalog.GetByShortCode("main-1")
	if err != nil {
		return nil, fmt.Errorf("demo seed menu item: %w", err)
	}
	arancini, err := catalog.GetByShortCode("starter-1")
	if err != nil {
		return nil, fmt.Errorf("demo seed menu item: %w", err)
	}
	pasta, err := catalog.GetByShortCode("main-3")
	if err != nil {
		return nil, fmt.Errorf("demo seed menu item: %w", err)
	}
	cake, err := catalog.GetByShortCode("dessert-1")
	if err != nil {
		return nil, fmt.Errorf("demo seed menu item: %w", err)
	}

	now := time.Now()

	orders := []*Order{
		{
			ID: "ORD-ABC123",
			Lines: []Line{
				{Item: ribeye, Quantity: 2},
				{Item: arancini, Quantity: 1},
			},
			Status:           orderstatus.Statuses.Preparing.Code(),
			TableNumber:      "12",
			CreatedAt:        now.Add(-15 * time.Minute),
			UpdatedAt:        now.Add(-10 * time.Minute),
			EstimatedMinutes: 20,
		},
		{
			ID: "ORD-DEF456",
			Lines: []Line{
				{Item: pasta, Quantity: 1},
			},
			Status:           orderstatus.Statuses.Pending.Code(),
			TableNumber:      "7",
			CreatedAt:        now.Add(-2 * time.Minute),
			UpdatedAt:        now.Add(-2 * time.Minute),
			EstimatedMinutes: 18,
		},
		{
			ID: "ORD-GHI789",
			Lines: []Line{
				{Item: cake, Quantity: 2},
			},
			Status:           orderstatus.Statuses.Ready.Code(),
			TableNumber:      "3",
			CreatedAt:        now.Add(-25 * time.Minute),
			UpdatedAt:        now,
			EstimatedMinutes: 12,
		},
	}

	for _, order := range orders {
		total := decimal.Zero
		for _, line := range order.Lines {
			total = total.Add(line.Subtotal())
		}
		order.TotalAmount = total
	}

	return orders, nil
}

// DemoSeedingFunc wraps ApplyDemoSeeds as a lifecycle OnStart hook.
func DemoSeedingFunc(ctx context.Context, store *Store, catalog *menu.Catalog, logger apt.Logger) func(context.Context) error {
	return func(context.Context) error {
		if err := ApplyDemoSeeds(ctx, store, catalog, logger); err != nil && logger != nil {
			logger.Errorf("demo seeding failed (non-fatal): %v", err)
		}
		return nil
	}
}
