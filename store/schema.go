package store

// Schema holds one row per instrument and candle close time. Times are
// unix milliseconds, UTC.
const Schema = `
CREATE TABLE IF NOT EXISTS candles (
	instrument TEXT NOT NULL,
	open_time INTEGER NOT NULL,
	close_time INTEGER NOT NULL,
	open REAL NOT NULL,
	high REAL NOT NULL,
	low REAL NOT NULL,
	close REAL NOT NULL,
	volume REAL NOT NULL,
	PRIMARY KEY (instrument, close_time)
);

CREATE INDEX IF NOT EXISTS idx_candles_close_time ON candles(close_time);
`
