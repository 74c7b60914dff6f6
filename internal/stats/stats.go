// ABOUTME: Aggregate business metrics: summary counts, revenue, category breakdown
// ABOUTME: Revenue is summed client-side over the ledger and rounded once at the end

package stats

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/sarkerlabs/fashion-backend/internal/store"
)

// Summary is the admin dashboard headline: estimated entity counts plus total
// revenue. Revenue is a 2-decimal string ("0.00" for an empty ledger) because
// storefront clients bind to that exact representation.
type Summary struct {
	Revenue  string `json:"revenue"`
	Users    int64  `json:"users"`
	Products int64  `json:"products"`
	Orders   int64  `json:"orders"`
}

// Aggregator computes business metrics over the stored records.
type Aggregator struct {
	stats    store.StatsStore
	payments store.PaymentStore
	logger   *slog.Logger
}

// NewAggregator creates an Aggregator over the stats and payment stores.
func NewAggregator(stats store.StatsStore, payments store.PaymentStore, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		stats:    stats,
		payments: payments,
		logger:   logger.With("component", "stats"),
	}
}

// Summarize returns entity counts and total revenue. Counts are collection
// estimates (cheap, approximate). Revenue loads every payment and sums the
// authoritative price field, rounding to 2 decimals once at the end, never
// per item, so per-payment rounding error cannot accumulate.
func (a *Aggregator) Summarize(ctx context.Context) (*Summary, error) {
	users, err := a.stats.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}

	products, err := a.stats.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting products: %w", err)
	}

	orders, err := a.stats.CountPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting payments: %w", err)
	}

	payments, err := a.payments.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading payments for revenue: %w", err)
	}

	var revenue float64
	for _, p := range payments {
		revenue += p.Price
	}
	revenue = math.Round(revenue*100) / 100

	return &Summary{
		Revenue:  fmt.Sprintf("%.2f", revenue),
		Users:    users,
		Products: products,
		Orders:   orders,
	}, nil
}

// OrdersByCategory returns the category breakdown: for every sold line item
// that still resolves to a catalog product, one row per category with the item
// count and the total of matched product prices. Items whose product has been
// deleted are silently excluded.
func (a *Aggregator) OrdersByCategory(ctx context.Context) ([]store.CategoryStat, error) {
	stats, err := a.stats.CategoryStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregating categories: %w", err)
	}
	return stats, nil
}
