package store

import (
	"fmt"

	"github.com/Ctsong73/fathom-microservice/internal/model"
)

// StorageError marks a durable-store I/O failure. It is fatal to the
// calling operation and must never be collapsed into an empty result.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store persists the daily price time series.
type Store interface {
	// UpsertPrices writes a batch of daily closes for one symbol.
	// Each (symbol, date) pair overwrites any prior value; the batch is
	// written in a single transaction.
	UpsertPrices(symbol string, points []model.PricePoint) error
	// Prices returns the series for a symbol restricted to dates within
	// the trailing window, ascending by date. Unknown symbols yield an
	// empty slice, not an error.
	Prices(symbol string, windowDays int) ([]model.PricePoint, error)
	// Prune deletes rows older than the retention cutoff across all
	// symbols and returns the number deleted.
	Prune(retentionDays int) (int64, error)
	// Symbols returns the static reference rows seeded at migration.
	Symbols() ([]model.StockInfo, error)
	Close() error
}
