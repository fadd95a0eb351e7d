package fetcher

import (
	"context"
	"time"

	"github.com/Ctsong73/fathom-microservice/internal/model"
)

// MockSource returns controllable fixed data for development and testing.
type MockSource struct {
	Points []model.PricePoint
	Err    error
	Calls  int
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Fetch(_ context.Context, symbol string) ([]model.PricePoint, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Points != nil {
		return m.Points, nil
	}
	return GenerateSeries(symbol, 100, 30), nil
}

// GenerateSeries produces a synthetic ascending daily close series ending
// yesterday, drifting upward from basePrice.
func GenerateSeries(symbol string, basePrice float64, count int) []model.PricePoint {
	points := make([]model.PricePoint, count)
	now := time.Now().UTC()
	for i := 0; i < count; i++ {
		d := now.AddDate(0, 0, -(count - i))
		points[i] = model.PricePoint{
			Symbol: symbol,
			Date:   time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
			Close:  basePrice * (1 + float64(i)*0.001),
		}
	}
	return points
}
