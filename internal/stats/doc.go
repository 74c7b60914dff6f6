// Package stats computes aggregate business metrics for the admin dashboard.
//
// Two computations:
//
//   - Summarize: estimated counts of users, products, and orders, plus total
//     revenue. Revenue is summed client-side over every payment's price field
//     (the authoritative charged amount) and rounded to 2 decimals once at the
//     end. An empty ledger reports "0.00".
//
//   - OrdersByCategory: delegates to the store's aggregation pipeline joining
//     sold product ids against the catalog, one row per matched item, grouped
//     by category. Deleted products contribute nothing; there is no "unknown
//     category" bucket.
package stats
