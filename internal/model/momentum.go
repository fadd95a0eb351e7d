package model

// MomentumSummary holds the derived momentum and volatility statistics
// for one symbol over the trailing window. All numeric fields are rounded
// to 2 decimal places; when fewer than 20 data points are available every
// numeric field is zero and DataPoints carries the actual count.
type MomentumSummary struct {
	Symbol        string  `json:"symbol"`
	CurrentPrice  float64 `json:"current_price"`
	Price6MoAgo   float64 `json:"price_6mo_ago"`
	Momentum6M    float64 `json:"momentum_6m"`
	Momentum3M    float64 `json:"momentum_3m"`
	Momentum1M    float64 `json:"momentum_1m"`
	Volatility    float64 `json:"volatility"`
	SMA20         float64 `json:"sma_20"`
	SMA50         float64 `json:"sma_50"`
	TrendStrength float64 `json:"trend_strength"`
	DataPoints    int     `json:"data_points"`
}
