package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Ctsong73/fathom-microservice/internal/fetcher"
	"github.com/Ctsong73/fathom-microservice/internal/model"
	"github.com/Ctsong73/fathom-microservice/internal/store"
)

// ErrUnknownSymbol is returned for symbols outside the configured universe.
var ErrUnknownSymbol = errors.New("unknown symbol")

// Window retrieves a normalized trailing window of daily closes.
// Implemented by fetcher.Chain.
type Window interface {
	FetchWindow(ctx context.Context, symbol string) ([]model.PricePoint, error)
}

// Cache is the slice of the result cache the orchestrator needs.
// Implementations never fail; an unavailable backend behaves as a miss.
type Cache interface {
	FetchResult(ctx context.Context, symbol string) *model.FetchResult
	SetFetchResult(ctx context.Context, symbol string, fr *model.FetchResult)
	DropMomentum(ctx context.Context, symbol string)
}

// Orchestrator runs the per-symbol fetch workflow:
// cache check, fetch, persist, prune, cache update.
type Orchestrator struct {
	chain         Window
	store         store.Store
	cache         Cache
	symbols       []string
	retentionDays int
	now           func() time.Time
}

// New creates an Orchestrator over the fixed symbol universe.
func New(chain Window, st store.Store, c Cache, symbols []string, retentionDays int) *Orchestrator {
	return &Orchestrator{
		chain:         chain,
		store:         st,
		cache:         c,
		symbols:       symbols,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// Symbols returns the configured universe.
func (o *Orchestrator) Symbols() []string { return o.symbols }

// Known reports whether a symbol belongs to the universe.
func (o *Orchestrator) Known(symbol string) bool {
	for _, s := range o.symbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// FetchStock fetches and persists the trailing close window for one symbol,
// returning the number of rows written. A cached fetch result short-circuits
// unless force is set. An exhausted provider is a zero-record outcome, not
// an error; storage failures propagate.
func (o *Orchestrator) FetchStock(ctx context.Context, symbol string, force bool) (int, error) {
	if !o.Known(symbol) {
		return 0, ErrUnknownSymbol
	}

	if !force {
		if cached := o.cache.FetchResult(ctx, symbol); cached != nil {
			log.Printf("[INFO] using cached fetch result for %s (%d records)", symbol, cached.Count)
			return cached.Count, nil
		}
	}

	log.Printf("[INFO] fetching fresh data for %s", symbol)
	points, err := o.chain.FetchWindow(ctx, symbol)
	if err != nil {
		var fe *fetcher.FetchError
		if errors.As(err, &fe) {
			log.Printf("[WARN] %v", fe)
			return 0, nil
		}
		return 0, err
	}
	if len(points) == 0 {
		return 0, nil
	}

	if err := o.store.UpsertPrices(symbol, points); err != nil {
		return 0, err
	}

	// Retention pruning is best-effort maintenance; a failure must not
	// fail the fetch.
	if _, err := o.store.Prune(o.retentionDays); err != nil {
		log.Printf("[WARN] prune after fetch: %v", err)
	}

	o.cache.SetFetchResult(ctx, symbol, &model.FetchResult{
		Symbol:    symbol,
		Count:     len(points),
		Timestamp: o.now(),
	})
	// The prices changed, so any cached momentum is stale. The fetch
	// result written above stays valid and is kept.
	o.cache.DropMomentum(ctx, symbol)

	log.Printf("[INFO] saved %d days for %s", len(points), symbol)
	return len(points), nil
}

// FetchAll runs the per-symbol flow for every symbol in the universe,
// sequentially. One symbol failing never aborts the others; a failed
// symbol reports zero records.
func (o *Orchestrator) FetchAll(ctx context.Context, force bool) map[string]int {
	results := make(map[string]int, len(o.symbols))
	for _, symbol := range o.symbols {
		count, err := o.FetchStock(ctx, symbol, force)
		if err != nil {
			log.Printf("[ERROR] fetch %s: %v", symbol, err)
			results[symbol] = 0
			continue
		}
		results[symbol] = count
	}
	return results
}
