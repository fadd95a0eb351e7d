package momentum

import (
	"math"
	"testing"
)

func linearSeries(start, end float64, n int) []float64 {
	prices := make([]float64, n)
	for i := 0; i < n; i++ {
		prices[i] = start + (end-start)*float64(i)/float64(n-1)
	}
	return prices
}

func TestCompute_InsufficientData(t *testing.T) {
	prices := linearSeries(100, 110, 19)
	sum := Compute("C", prices)

	if sum.DataPoints != 19 {
		t.Fatalf("expected data_points 19, got %d", sum.DataPoints)
	}
	if sum.Momentum6M != 0 || sum.CurrentPrice != 0 || sum.Volatility != 0 ||
		sum.SMA20 != 0 || sum.SMA50 != 0 || sum.TrendStrength != 0 {
		t.Errorf("expected all numeric fields zero below 20 points, got %+v", sum)
	}
}

func TestCompute_TwentyPoints(t *testing.T) {
	prices := linearSeries(100, 110, 20)
	sum := Compute("C", prices)

	if sum.DataPoints != 20 {
		t.Fatalf("expected data_points 20, got %d", sum.DataPoints)
	}
	if sum.Momentum6M != 10.0 {
		t.Errorf("expected momentum_6m 10.0 from first/last point, got %v", sum.Momentum6M)
	}
	if sum.CurrentPrice != 110 {
		t.Errorf("expected current_price 110, got %v", sum.CurrentPrice)
	}
	if sum.Price6MoAgo != 100 {
		t.Errorf("expected price_6mo_ago 100, got %v", sum.Price6MoAgo)
	}
	if sum.SMA20 == 0 {
		t.Error("expected non-zero sma_20 with exactly 20 points")
	}
	if sum.SMA50 != 0 {
		t.Errorf("expected sma_50 zero below 50 points, got %v", sum.SMA50)
	}
}

func TestCompute_Momentum3MBoundary(t *testing.T) {
	// With exactly 63 points the 3-month reference is P[n-63] = P[0].
	prices := linearSeries(100, 150, 63)
	sum := Compute("XOM", prices)
	if sum.Momentum3M != 50.0 {
		t.Errorf("63 points: expected momentum_3m 50.0 (from P[0]), got %v", sum.Momentum3M)
	}

	prices = linearSeries(100, 150, 62)
	sum = Compute("XOM", prices)
	if sum.Momentum3M != 0 {
		t.Errorf("62 points: expected momentum_3m 0, got %v", sum.Momentum3M)
	}
}

func TestCompute_Momentum1MBoundary(t *testing.T) {
	prices := linearSeries(100, 120, 21)
	sum := Compute("NEM", prices)
	if sum.Momentum1M != 20.0 {
		t.Errorf("21 points: expected momentum_1m 20.0 (from P[0]), got %v", sum.Momentum1M)
	}

	prices = linearSeries(100, 120, 20)
	sum = Compute("NEM", prices)
	if sum.Momentum1M != 0 {
		t.Errorf("20 points: expected momentum_1m 0, got %v", sum.Momentum1M)
	}
}

func TestCompute_FivePointSeries(t *testing.T) {
	sum := Compute("C", []float64{100, 102, 99, 105, 110})
	if sum.Momentum6M != 0 {
		t.Errorf("expected momentum_6m 0 below threshold, got %v", sum.Momentum6M)
	}
	if sum.DataPoints != 5 {
		t.Errorf("expected data_points 5, got %d", sum.DataPoints)
	}
}

func TestCompute_LinearDoubling(t *testing.T) {
	prices := linearSeries(100, 200, 180)
	sum := Compute("C", prices)

	if sum.Momentum6M != 100.0 {
		t.Errorf("expected momentum_6m 100.0 for a doubling series, got %v", sum.Momentum6M)
	}

	mean := func(xs []float64) float64 {
		s := 0.0
		for _, x := range xs {
			s += x
		}
		return s / float64(len(xs))
	}
	wantSMA20 := math.Round(mean(prices[160:])*100) / 100
	if sum.SMA20 != wantSMA20 {
		t.Errorf("expected sma_20 %v (trailing mean of last 20), got %v", wantSMA20, sum.SMA20)
	}
	wantSMA50 := math.Round(mean(prices[130:])*100) / 100
	if sum.SMA50 != wantSMA50 {
		t.Errorf("expected sma_50 %v (trailing mean of last 50), got %v", wantSMA50, sum.SMA50)
	}

	// Strictly increasing series: every daily return is positive.
	if sum.TrendStrength != 100.0 {
		t.Errorf("expected trend_strength 100.0, got %v", sum.TrendStrength)
	}
}

func TestCompute_VolatilitySampleStddev(t *testing.T) {
	// Alternating +10% / -10% on a 20-point series gives returns with a
	// known sample standard deviation.
	prices := make([]float64, 20)
	prices[0] = 100
	for i := 1; i < 20; i++ {
		if i%2 == 1 {
			prices[i] = prices[i-1] * 1.1
		} else {
			prices[i] = prices[i-1] * 0.9
		}
	}
	sum := Compute("C", prices)

	returns := make([]float64, 19)
	for i := 1; i < 20; i++ {
		returns[i-1] = prices[i]/prices[i-1] - 1
	}
	want := math.Round(sampleStddev(returns)*math.Sqrt(252)*100*100) / 100
	if sum.Volatility != want {
		t.Errorf("expected volatility %v, got %v", want, sum.Volatility)
	}
	if sum.Volatility == 0 {
		t.Error("expected non-zero volatility")
	}
}

func TestSampleStddev(t *testing.T) {
	// Known value: stddev of {2,4,4,4,5,5,7,9} with n-1 denominator.
	got := sampleStddev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	want := math.Sqrt(32.0 / 7.0)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, got)
	}

	if sampleStddev([]float64{1}) != 0 {
		t.Error("expected 0 for a single observation")
	}
	if sampleStddev(nil) != 0 {
		t.Error("expected 0 for no observations")
	}
}

func TestCompute_TrendStrength(t *testing.T) {
	// 25 points, alternating up/down: 12 up days of 24 returns.
	prices := make([]float64, 25)
	prices[0] = 100
	for i := 1; i < 25; i++ {
		if i%2 == 1 {
			prices[i] = prices[i-1] + 1
		} else {
			prices[i] = prices[i-1] - 0.5
		}
	}
	sum := Compute("C", prices)
	if sum.TrendStrength != 50.0 {
		t.Errorf("expected trend_strength 50.0, got %v", sum.TrendStrength)
	}
}

func TestCompute_Rounding(t *testing.T) {
	prices := linearSeries(100, 103.333, 20)
	sum := Compute("C", prices)
	for name, v := range map[string]float64{
		"current_price": sum.CurrentPrice,
		"momentum_6m":   sum.Momentum6M,
		"volatility":    sum.Volatility,
		"sma_20":        sum.SMA20,
	} {
		if math.Round(v*100)/100 != v {
			t.Errorf("%s not rounded to 2 decimals: %v", name, v)
		}
	}
}
