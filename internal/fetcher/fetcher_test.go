package fetcher

import (
	"context"
	"errors"
	"testing"

	"github.com/Ctsong73/fathom-microservice/internal/model"
)

func TestChain_PrimarySucceeds(t *testing.T) {
	primary := &MockSource{Points: GenerateSeries("C", 100, 10)}
	secondary := &MockSource{Points: GenerateSeries("C", 200, 10)}
	chain := NewChain(0, 0, primary, secondary)

	points, err := chain.FetchWindow(context.Background(), "C")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 10 {
		t.Fatalf("expected 10 points, got %d", len(points))
	}
	if secondary.Calls != 0 {
		t.Error("secondary source must not be tried when primary succeeds")
	}
}

func TestChain_FallsBackOnEmpty(t *testing.T) {
	primary := &MockSource{Points: []model.PricePoint{}}
	secondary := &MockSource{Points: GenerateSeries("C", 100, 5)}
	chain := NewChain(0, 0, primary, secondary)

	points, err := chain.FetchWindow(context.Background(), "C")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 5 {
		t.Fatalf("expected 5 points from secondary, got %d", len(points))
	}
	if primary.Calls != 1 || secondary.Calls != 1 {
		t.Errorf("expected one call each, got primary=%d secondary=%d", primary.Calls, secondary.Calls)
	}
}

func TestChain_FallsBackOnError(t *testing.T) {
	primary := &MockSource{Err: errors.New("rate limited")}
	secondary := &MockSource{Points: GenerateSeries("C", 100, 5)}
	chain := NewChain(0, 0, primary, secondary)

	points, err := chain.FetchWindow(context.Background(), "C")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 5 {
		t.Fatalf("expected fallback rows, got %d", len(points))
	}
}

func TestChain_AllExhausted(t *testing.T) {
	chain := NewChain(0, 0,
		&MockSource{Err: errors.New("blocked")},
		&MockSource{Points: []model.PricePoint{}},
	)

	_, err := chain.FetchWindow(context.Background(), "C")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if len(fe.Attempts) != 2 {
		t.Errorf("expected both sources recorded, got %v", fe.Attempts)
	}
	if fe.Symbol != "C" {
		t.Errorf("expected symbol C in error, got %q", fe.Symbol)
	}
}

func TestChain_NormalizesSourceOutput(t *testing.T) {
	// A source returning dirty rows: out of order, duplicate, invalid.
	dirty := []model.PricePoint{
		pt("2025-01-08", 103),
		pt("2025-01-02", 100),
		pt("2025-01-02", 99),
		pt("2025-01-06", -1),
	}
	chain := NewChain(0, 0, &MockSource{Points: dirty})

	points, err := chain.FetchWindow(context.Background(), "C")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 normalized rows, got %d", len(points))
	}
	if points[0].Close != 99 || points[1].Close != 103 {
		t.Errorf("unexpected normalized closes: %v, %v", points[0].Close, points[1].Close)
	}
}
