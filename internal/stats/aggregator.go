// Package stats derives time-bucketed statistics from a wallet's transaction
// history. Bucketing is by calendar month in UTC.
package stats

import (
	"fmt"
	"time"

	"github.com/nft-dashboard/internal/models"
)

// Aggregator computes monthly transaction statistics. The clock is injectable
// so current-month counts are deterministic under test.
type Aggregator struct {
	now func() time.Time
}

// NewAggregator creates an aggregator using the wall clock.
func NewAggregator() *Aggregator {
	return &Aggregator{now: time.Now}
}

// NewAggregatorWithClock creates an aggregator with an injected clock.
func NewAggregatorWithClock(now func() time.Time) *Aggregator {
	return &Aggregator{now: now}
}

// FilterAssetTransfers keeps only transactions carrying an asset-transfer
// sub-record.
func FilterAssetTransfers(txns []models.Transaction) []models.Transaction {
	transfers := make([]models.Transaction, 0, len(txns))
	for _, txn := range txns {
		if txn.AssetTransfer != nil {
			transfers = append(transfers, txn)
		}
	}
	return transfers
}

// MonthKey derives the "YYYY-MM" aggregation key from a UTC timestamp.
func MonthKey(t time.Time) string {
	utc := t.UTC()
	return fmt.Sprintf("%d-%02d", utc.Year(), int(utc.Month()))
}

// CountCurrentMonth counts the transactions confirmed in the current UTC
// month. Transactions without a confirmation timestamp are excluded.
func (a *Aggregator) CountCurrentMonth(txns []models.Transaction) int {
	currentKey := MonthKey(a.now())

	count := 0
	for _, txn := range txns {
		if txn.RoundTime == nil {
			continue
		}
		if MonthKey(time.Unix(*txn.RoundTime, 0)) == currentKey {
			count++
		}
	}
	return count
}

// BucketByMonth counts transactions per calendar month, retaining every
// historical month seen. Transactions without a confirmation timestamp are
// excluded from all buckets.
func BucketByMonth(txns []models.Transaction) map[string]int {
	buckets := make(map[string]int)
	for _, txn := range txns {
		if txn.RoundTime == nil {
			continue
		}
		buckets[MonthKey(time.Unix(*txn.RoundTime, 0))]++
	}
	return buckets
}
