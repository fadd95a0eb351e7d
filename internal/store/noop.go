package store

import "github.com/Ctsong73/fathom-microservice/internal/model"

// NoopStore is a no-op implementation used when no database path is configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) UpsertPrices(_ string, _ []model.PricePoint) error { return nil }
func (n *NoopStore) Prices(_ string, _ int) ([]model.PricePoint, error) {
	return nil, nil
}
func (n *NoopStore) Prune(_ int) (int64, error)          { return 0, nil }
func (n *NoopStore) Symbols() ([]model.StockInfo, error) { return nil, nil }
func (n *NoopStore) Close() error                        { return nil }
