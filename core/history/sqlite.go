package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/pawpal/core/model"
)

// SQLiteStore persists plans to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS plan_history (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        id TEXT NOT NULL UNIQUE,
        ts INTEGER,
        plan_date TEXT,
        record TEXT
    );
    CREATE INDEX IF NOT EXISTS plan_history_date ON plan_history (plan_date);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Append writes the record to the database.
func (s *SQLiteStore) Append(ctx context.Context, rec PlanRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO plan_history (id, ts, plan_date, record) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Timestamp.Unix(), rec.Date.Format(model.DateLayout), string(b))
	return err
}

// Query returns records matching q. The date range is applied in SQL, the
// task filter after decoding.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]PlanRecord, error) {
	var args []any
	query := `SELECT record FROM plan_history WHERE 1=1`
	if !q.Start.IsZero() {
		query += ` AND plan_date >= ?`
		args = append(args, q.Start.Format(model.DateLayout))
	}
	if !q.End.IsZero() {
		query += ` AND plan_date <= ?`
		args = append(args, q.End.Format(model.DateLayout))
	}
	query += ` ORDER BY seq`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []PlanRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r PlanRecord
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		if q.Matches(r) {
			res = append(res, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
