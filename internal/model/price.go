package model

import "time"

// PricePoint is one daily close for a symbol.
type PricePoint struct {
	Symbol string
	Date   time.Time // calendar date, no time component
	Close  float64
}

// StockInfo is static reference data for one symbol in the universe.
type StockInfo struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	Name   string `json:"name" yaml:"name"`
}

// FetchResult is the cached outcome of a successful fetch.
type FetchResult struct {
	Symbol    string    `json:"symbol"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}
