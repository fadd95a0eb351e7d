package fetcher

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Ctsong73/fathom-microservice/internal/model"
)

// DownloadSource fetches daily closes from the Yahoo Finance bulk download
// endpoint, which serves CSV. First fallback after the chart API.
type DownloadSource struct {
	BaseURL string
	Client  *http.Client
}

func NewDownloadSource(proxyURL string) *DownloadSource {
	return &DownloadSource{
		BaseURL: "https://query1.finance.yahoo.com",
		Client:  newHTTPClient(proxyURL),
	}
}

func (s *DownloadSource) Name() string { return "download" }

func (s *DownloadSource) Fetch(ctx context.Context, symbol string) ([]model.PricePoint, error) {
	now := time.Now()
	u := fmt.Sprintf("%s/v7/finance/download/%s?period1=%d&period2=%d&interval=1d&events=history",
		s.BaseURL, url.PathEscape(symbol), now.AddDate(0, -6, 0).Unix(), now.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: status %d", resp.StatusCode)
	}

	return parsePriceCSV(resp.Body, symbol)
}

// parsePriceCSV reads a daily-history CSV with Date and Close columns.
// Header names are matched case-insensitively; rows with missing or
// unparsable values are skipped rather than failing the whole response.
func parsePriceCSV(r io.Reader, symbol string) ([]model.PricePoint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	dateIdx, closeIdx := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date":
			dateIdx = i
		case "close":
			closeIdx = i
		}
	}
	if dateIdx < 0 || closeIdx < 0 {
		return nil, fmt.Errorf("csv: missing date/close columns in %v", header)
	}

	var points []model.PricePoint
	for {
		rec, err := cr.Read()
		if err != nil {
			break
		}
		if len(rec) <= dateIdx || len(rec) <= closeIdx {
			continue
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(rec[dateIdx]))
		if err != nil {
			continue
		}
		closePrice, err := strconv.ParseFloat(strings.TrimSpace(rec[closeIdx]), 64)
		if err != nil {
			continue
		}
		points = append(points, model.PricePoint{Symbol: symbol, Date: date, Close: closePrice})
	}
	return points, nil
}
