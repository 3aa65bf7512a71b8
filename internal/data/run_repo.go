package data

import (
	"database/sql"

	"warehouse/internal/core"
)

type RunRepo struct {
	db *sql.DB
}

func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

func (r *RunRepo) Create(rec *core.RunRecord) error {
	res, err := r.db.Exec(`INSERT INTO runs (timestamp, server, database_name, backend, row_count, duration_ms, status, error_message) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.UTC(), rec.Server, rec.Database, rec.Backend, rec.RowCount, rec.DurationMs, rec.Status, rec.ErrorMessage)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	rec.ID = id
	return nil
}

func (r *RunRepo) GetRecent(limit int) ([]core.RunRecord, error) {
	rows, err := r.db.Query(`SELECT id, timestamp, server, database_name, backend, row_count, duration_ms, status, error_message FROM runs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []core.RunRecord
	for rows.Next() {
		var rec core.RunRecord
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Server, &rec.Database, &rec.Backend, &rec.RowCount, &rec.DurationMs, &rec.Status, &rec.ErrorMessage); err != nil {
			return nil, err
		}

		// SQLite stores UTC
		rec.Timestamp = rec.Timestamp.Local()

		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
