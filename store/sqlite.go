// Package store keeps imported candle history in SQLite so series can be
// reloaded by instrument instead of re-reading CSV files.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/pricepaths/market"
)

// ErrNotFound is returned when an instrument has no stored candles.
var ErrNotFound = errors.New("not found")

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// SaveCandles inserts candles for instrument, replacing any row with the
// same close time. It returns the number of candles written.
func (s *SQLite) SaveCandles(instrument string, candles []market.Candle) (int, error) {
	if instrument == "" {
		return 0, fmt.Errorf("%w: empty instrument", market.ErrInvalidInput)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO candles
		(instrument, open_time, close_time, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(instrument, close_time) DO UPDATE SET
			open_time = excluded.open_time,
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, c := range candles {
		if _, err := stmt.Exec(
			instrument,
			c.OpenTime.UnixMilli(),
			c.CloseTime.UnixMilli(),
			c.Open, c.High, c.Low, c.Close, c.Volume,
		); err != nil {
			return 0, fmt.Errorf("save candle %s: %w", c.CloseTime.Format(time.RFC3339), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(candles), nil
}

// LoadCandles returns every candle for instrument ordered by close time.
func (s *SQLite) LoadCandles(instrument string) ([]market.Candle, error) {
	rows, err := s.db.Query(`
		SELECT open_time, close_time, open, high, low, close, volume
		FROM candles
		WHERE instrument = ?
		ORDER BY close_time ASC`, instrument)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []market.Candle
	for rows.Next() {
		var (
			c           market.Candle
			open, close int64
		)
		if err := rows.Scan(&open, &close, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, err
		}
		c.OpenTime = time.UnixMilli(open).UTC()
		c.CloseTime = time.UnixMilli(close).UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("instrument %q: %w", instrument, ErrNotFound)
	}
	return out, nil
}

// Instrument is one stored instrument with its candle count and range.
type Instrument struct {
	Name  string    `json:"name"`
	Count int       `json:"count"`
	First time.Time `json:"first"`
	Last  time.Time `json:"last"`
}

func (s *SQLite) Instruments() ([]Instrument, error) {
	rows, err := s.db.Query(`
		SELECT instrument, COUNT(*), MIN(close_time), MAX(close_time)
		FROM candles
		GROUP BY instrument
		ORDER BY instrument ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Instrument
	for rows.Next() {
		var (
			in          Instrument
			first, last int64
		)
		if err := rows.Scan(&in.Name, &in.Count, &first, &last); err != nil {
			return nil, err
		}
		in.First = time.UnixMilli(first).UTC()
		in.Last = time.UnixMilli(last).UTC()
		out = append(out, in)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
