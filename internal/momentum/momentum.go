package momentum

import (
	"context"
	"log"
	"math"

	"github.com/Ctsong73/fathom-microservice/internal/model"
	"github.com/Ctsong73/fathom-microservice/internal/store"
)

const (
	windowDays = 180
	minPoints  = 20 // below this every numeric field is zero

	offset3M = 63 // trading days in three months
	offset1M = 21 // trading days in one month

	tradingDaysPerYear = 252
)

// Cache is the slice of the result cache the calculator needs.
// Implementations never fail; an unavailable backend behaves as a miss.
type Cache interface {
	Momentum(ctx context.Context, symbol string) *model.MomentumSummary
	SetMomentum(ctx context.Context, symbol string, ms *model.MomentumSummary)
}

// Calculator derives momentum and volatility statistics from the stored
// price series, with a short-TTL cache in front.
type Calculator struct {
	store store.Store
	cache Cache
}

func NewCalculator(st store.Store, c Cache) *Calculator {
	return &Calculator{store: st, cache: c}
}

// Momentum computes the summary for one symbol over the trailing window.
// Fewer than 20 stored points yields a zero-valued summary carrying the
// actual count; that is a valid result, not an error.
func (c *Calculator) Momentum(ctx context.Context, symbol string) (*model.MomentumSummary, error) {
	if cached := c.cache.Momentum(ctx, symbol); cached != nil {
		log.Printf("[INFO] momentum cache hit for %s", symbol)
		return cached, nil
	}

	points, err := c.store.Prices(symbol, windowDays)
	if err != nil {
		return nil, err
	}

	summary := Compute(symbol, closes(points))

	// Cache before returning so the next read within the TTL skips the
	// computation.
	c.cache.SetMomentum(ctx, symbol, summary)
	return summary, nil
}

func closes(points []model.PricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Close
	}
	return out
}

// Compute derives the momentum summary from a chronologically ascending
// close series. Pure function; the oldest close is prices[0].
func Compute(symbol string, prices []float64) *model.MomentumSummary {
	n := len(prices)
	if n < minPoints {
		return &model.MomentumSummary{Symbol: symbol, DataPoints: n}
	}

	current := prices[n-1]
	oldest := prices[0]

	summary := &model.MomentumSummary{
		Symbol:       symbol,
		CurrentPrice: round2(current),
		Price6MoAgo:  round2(oldest),
		Momentum6M:   round2((current/oldest - 1) * 100),
		DataPoints:   n,
	}

	if n >= offset3M {
		summary.Momentum3M = round2((current/prices[n-offset3M] - 1) * 100)
	}
	if n >= offset1M {
		summary.Momentum1M = round2((current/prices[n-offset1M] - 1) * 100)
	}

	returns := make([]float64, 0, n-1)
	upDays := 0
	for i := 1; i < n; i++ {
		r := prices[i]/prices[i-1] - 1
		returns = append(returns, r)
		if r > 0 {
			upDays++
		}
	}

	summary.Volatility = round2(sampleStddev(returns) * math.Sqrt(tradingDaysPerYear) * 100)
	summary.TrendStrength = round2(float64(upDays) / float64(len(returns)) * 100)

	if sma, ok := trailingMean(prices, 20); ok {
		summary.SMA20 = round2(sma)
	}
	if sma, ok := trailingMean(prices, 50); ok {
		summary.SMA50 = round2(sma)
	}

	return summary
}

// sampleStddev is the n-1 denominator standard deviation.
func sampleStddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func trailingMean(prices []float64, window int) (float64, bool) {
	if len(prices) < window {
		return 0, false
	}
	sum := 0.0
	for _, p := range prices[len(prices)-window:] {
		sum += p
	}
	return sum / float64(window), true
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
