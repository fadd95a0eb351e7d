package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Ctsong73/fathom-microservice/internal/model"
)

// StooqSource fetches daily closes from the Stooq CSV export. Last resort
// in the fallback chain; Stooq uses lowercase ".us"-suffixed tickers for
// US equities.
type StooqSource struct {
	BaseURL string
	Client  *http.Client
}

func NewStooqSource(proxyURL string) *StooqSource {
	return &StooqSource{
		BaseURL: "https://stooq.com",
		Client:  newHTTPClient(proxyURL),
	}
}

func (s *StooqSource) Name() string { return "stooq" }

func (s *StooqSource) stooqSymbol(symbol string) string {
	if strings.Contains(symbol, ".") {
		return strings.ToLower(symbol)
	}
	return strings.ToLower(symbol) + ".us"
}

func (s *StooqSource) Fetch(ctx context.Context, symbol string) ([]model.PricePoint, error) {
	u := fmt.Sprintf("%s/q/d/l/?s=%s&i=d", s.BaseURL, url.QueryEscape(s.stooqSymbol(symbol)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stooq fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stooq: status %d", resp.StatusCode)
	}

	return parsePriceCSV(resp.Body, symbol)
}
