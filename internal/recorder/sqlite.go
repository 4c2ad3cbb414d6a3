package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists sync history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS run_summaries (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			total           INTEGER,
			updated         INTEGER,
			skipped         INTEGER,
			failed          INTEGER,
			trades_updated  INTEGER,
			duration_ms     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON run_summaries(timestamp)`,

		`CREATE TABLE IF NOT EXISTS holding_updates (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			currency      TEXT,
			status        TEXT,
			price         REAL,
			rate          REAL,
			pe            REAL,
			pe_percentile REAL,
			pb            REAL,
			roe           REAL,
			peg           REAL,
			note          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_holdings_ts ON holding_updates(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_holdings_symbol ON holding_updates(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(sum *RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO run_summaries
		(timestamp, total, updated, skipped, failed, trades_updated, duration_ms)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), sum.Total, sum.Updated, sum.Skipped, sum.Failed,
		sum.TradesUpdated, sum.DurationMillis,
	)
	return err
}

func (r *SQLiteRecorder) RecordHolding(rec *HoldingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO holding_updates
		(timestamp, symbol, currency, status, price, rate, pe, pe_percentile, pb, roe, peg, note)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Symbol, rec.Currency, rec.Status,
		nullable(rec.Price), nullable(rec.Rate), nullable(rec.PE), nullable(rec.PEPercentile),
		nullable(rec.PB), nullable(rec.ROE), nullable(rec.PEG), rec.Note,
	)
	return err
}

func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
