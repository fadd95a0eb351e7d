package store

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Ctsong73/fathom-microservice/internal/model"
)

// SQLiteStore persists daily prices to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database, runs migrations,
// and seeds the stocks table with the given universe.
func NewSQLiteStore(dbPath string, stocks []model.StockInfo) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance while fetches write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(stocks); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate(stocks []model.StockInfo) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stocks (
			symbol TEXT PRIMARY KEY,
			name   TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS daily_prices (
			symbol TEXT NOT NULL,
			date   TEXT NOT NULL,
			close  REAL NOT NULL,
			PRIMARY KEY (symbol, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_prices_date ON daily_prices(date)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	for _, st := range stocks {
		if _, err := s.db.Exec(`INSERT OR IGNORE INTO stocks (symbol, name) VALUES (?, ?)`,
			st.Symbol, st.Name); err != nil {
			return fmt.Errorf("seed stock %s: %w", st.Symbol, err)
		}
	}
	return nil
}

func (s *SQLiteStore) UpsertPrices(symbol string, points []model.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return &StorageError{Op: "upsert begin", Err: err}
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO daily_prices (symbol, date, close) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return &StorageError{Op: "upsert prepare", Err: err}
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.Exec(symbol, p.Date.Format("2006-01-02"), p.Close); err != nil {
			tx.Rollback()
			return &StorageError{Op: "upsert exec", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "upsert commit", Err: err}
	}
	return nil
}

func (s *SQLiteStore) Prices(symbol string, windowDays int) ([]model.PricePoint, error) {
	cutoff := time.Now().AddDate(0, 0, -windowDays).Format("2006-01-02")

	rows, err := s.db.Query(`SELECT date, close FROM daily_prices
		WHERE symbol = ? AND date >= ?
		ORDER BY date`, symbol, cutoff)
	if err != nil {
		return nil, &StorageError{Op: "query prices", Err: err}
	}
	defer rows.Close()

	var points []model.PricePoint
	for rows.Next() {
		var dateStr string
		var closePrice float64
		if err := rows.Scan(&dateStr, &closePrice); err != nil {
			return nil, &StorageError{Op: "scan price row", Err: err}
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			// A malformed date in the store is corruption, not "no data".
			return nil, &StorageError{Op: "parse stored date", Err: err}
		}
		points = append(points, model.PricePoint{Symbol: symbol, Date: date, Close: closePrice})
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "iterate prices", Err: err}
	}
	return points, nil
}

func (s *SQLiteStore) Prune(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays).Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM daily_prices WHERE date < ?`, cutoff)
	if err != nil {
		return 0, &StorageError{Op: "prune", Err: err}
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, &StorageError{Op: "prune rows affected", Err: err}
	}
	if deleted > 0 {
		log.Printf("[INFO] pruned %d price rows older than %s", deleted, cutoff)
	}
	return deleted, nil
}

func (s *SQLiteStore) Symbols() ([]model.StockInfo, error) {
	rows, err := s.db.Query(`SELECT symbol, name FROM stocks ORDER BY symbol`)
	if err != nil {
		return nil, &StorageError{Op: "query stocks", Err: err}
	}
	defer rows.Close()

	var stocks []model.StockInfo
	for rows.Next() {
		var st model.StockInfo
		if err := rows.Scan(&st.Symbol, &st.Name); err != nil {
			return nil, &StorageError{Op: "scan stock row", Err: err}
		}
		stocks = append(stocks, st)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "iterate stocks", Err: err}
	}
	return stocks, nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
