package order

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/appetiteclub/bistro/pkg/enums/orderstatus"
)

const (
	// Estimate assumed for served orders that carry none.
	fallbackEstimateMinutes = 15
	// Baseline shown before any order has been served.
	baselinePrepMinutes = 18
)

// DashboardStats is the admin dashboard snapshot, recomputed on demand and
// never stored.
type DashboardStats struct {
	TotalOrdersToday   int             `json:"total_orders_today"`
	TotalRevenueToday  decimal.Decimal `json:"total_revenue_today"`
	ActiveOrderCount   int             `json:"active_order_count"`
	AvgPrepTimeMinutes float64         `json:"avg_prep_time_minutes"`
}

// Aggregator derives dashboard metrics from the order store. It holds no
// state of its own; every call recomputes from scratch.
type Aggregator struct {
	store *Store
	now   func() time.Time
}

func NewAggregator(store *Store) *Aggregator {
	return &Aggregator{store: store, now: time.Now}
}

// Stats computes the dashboard snapshot. "Today" runs from local midnight;
// the prep-time average covers served orders only.
func (a *Aggregator) Stats() DashboardStats {
	now := a.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := DashboardStats{TotalRevenueToday: decimal.Zero}

	var servedCount, servedMinutes int
	for _, order := range a.store.List() {
		if !order.CreatedAt.Before(midnight) {
			stats.TotalOrdersToday++
			stats.TotalRevenueToday = stats.TotalRevenueToday.Add(order.TotalAmount)
		}
		if !order.Terminal() {
			stats.ActiveOrderCount++
		}
		if order.Status == orderstatus.Statuses.Served.Code() {
			servedCount++
			if order.EstimatedMinutes > 0 {
				servedMinutes += order.EstimatedMinutes
			} else {
				servedMinutes += fallbackEstimateMinutes
			}
		}
	}

	if servedCount > 0 {
		stats.AvgPrepTimeMinutes = math.Round(float64(servedMinutes) / float64(servedCount))
	} else {
		stats.AvgPrepTimeMinutes = baselinePrepMinutes
	}

	return stats
}
