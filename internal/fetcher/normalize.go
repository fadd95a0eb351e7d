package fetcher

import (
	"math"
	"sort"
	"time"

	"github.com/Ctsong73/fathom-microservice/internal/model"
)

// Normalize turns a raw provider response into the canonical series:
// invalid prices dropped, dates sorted ascending, duplicate dates resolved
// last-occurrence-wins, and the result truncated to the most recent limit
// entries. Dates are collapsed to calendar days in UTC.
func Normalize(points []model.PricePoint, limit int) []model.PricePoint {
	valid := make([]model.PricePoint, 0, len(points))
	for _, p := range points {
		if p.Close <= 0 || math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			continue
		}
		if p.Date.IsZero() {
			continue
		}
		y, m, d := p.Date.UTC().Date()
		p.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		valid = append(valid, p)
	}

	// Stable sort keeps response order for equal dates so the last
	// occurrence in the response wins the dedup below.
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Date.Before(valid[j].Date) })

	deduped := valid[:0]
	for _, p := range valid {
		if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(p.Date) {
			deduped[n-1] = p
			continue
		}
		deduped = append(deduped, p)
	}

	if limit > 0 && len(deduped) > limit {
		deduped = deduped[len(deduped)-limit:]
	}
	return deduped
}
