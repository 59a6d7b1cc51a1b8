package storage

import (
	"database/sql"
	"time"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	Close() error
}

// Store records simulation request metadata. Simulation output is never stored.
type Store struct{ db DB }

// RequestRecord is one simulation request as received by a front-end.
type RequestRecord struct {
	Symbol    string
	StartDate time.Time
	Paths     int
	Horizon   int
	Source    string // http, telegram or cli
	At        time.Time
}

// UsageStats aggregates requests for one symbol.
type UsageStats struct {
	Symbol string
	Count  int
	Paths  int
}

func OpenSQLite(dsn string) (DB, error) {
	return sql.Open("sqlite3", dsn)
}

func InitSchema(db DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS requests(
		symbol TEXT NOT NULL, start_date TEXT NOT NULL, paths INTEGER, horizon INTEGER, source TEXT, ts INTEGER
	)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS requests_ts ON requests(ts)`)
	return err
}

func NewStore(db DB) *Store { return &Store{db: db} }

func (s *Store) SaveRequest(r RequestRecord) error {
	_, err := s.db.Exec(`INSERT INTO requests(symbol,start_date,paths,horizon,source,ts) VALUES(?,?,?,?,?,?)`,
		r.Symbol, r.StartDate.Format(time.DateOnly), r.Paths, r.Horizon, r.Source, r.At.Unix())
	return err
}

// Usage returns per-symbol counts for requests at or after since.
func (s *Store) Usage(since time.Time) ([]UsageStats, error) {
	rows, err := s.db.Query(`SELECT symbol, COUNT(*), COALESCE(SUM(paths),0) FROM requests
		WHERE ts>=? GROUP BY symbol ORDER BY COUNT(*) DESC, symbol ASC`, since.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []UsageStats
	for rows.Next() {
		var u UsageStats
		if err := rows.Scan(&u.Symbol, &u.Count, &u.Paths); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
