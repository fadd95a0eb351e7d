package fetcher

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/Ctsong73/fathom-microservice/internal/model"
)

// windowEntries bounds how many daily closes one fetch may produce.
const windowEntries = 180

// Source retrieves a trailing window of daily closes for one symbol from
// one external provider endpoint.
type Source interface {
	Name() string
	Fetch(ctx context.Context, symbol string) ([]model.PricePoint, error)
}

// FetchError means every source in the chain failed or produced no usable
// rows. The orchestrator treats it as a zero-record outcome, not a fault.
type FetchError struct {
	Symbol   string
	Attempts []string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: all sources exhausted (%s)", e.Symbol, strings.Join(e.Attempts, ", "))
}

// Chain tries its sources in priority order until one yields valid rows.
// Fallbacks are sequential on purpose: later sources exist because earlier
// ones are sometimes blocked or rate-limited.
type Chain struct {
	sources []Source
	delay   func()
}

// NewChain builds a fallback chain over the given sources. Before each
// network attempt it sleeps a randomized delay between min and max to stay
// under provider rate limits.
func NewChain(delayMin, delayMax time.Duration, sources ...Source) *Chain {
	return &Chain{
		sources: sources,
		delay: func() {
			if delayMax <= 0 {
				return
			}
			d := delayMin
			if delayMax > delayMin {
				d += time.Duration(rand.Int63n(int64(delayMax - delayMin)))
			}
			time.Sleep(d)
		},
	}
}

// FetchWindow retrieves, normalizes, and truncates the daily close series
// for a symbol. It returns a *FetchError when no source produced usable rows.
func (c *Chain) FetchWindow(ctx context.Context, symbol string) ([]model.PricePoint, error) {
	attempts := make([]string, 0, len(c.sources))
	for _, src := range c.sources {
		attempts = append(attempts, src.Name())

		c.delay()

		points, err := src.Fetch(ctx, symbol)
		if err != nil {
			log.Printf("[WARN] source %s failed for %s: %v", src.Name(), symbol, err)
			continue
		}
		points = Normalize(points, windowEntries)
		if len(points) == 0 {
			log.Printf("[WARN] source %s returned no usable rows for %s", src.Name(), symbol)
			continue
		}
		log.Printf("[INFO] fetched %d rows for %s via %s", len(points), symbol, src.Name())
		return points, nil
	}
	return nil, &FetchError{Symbol: symbol, Attempts: attempts}
}
