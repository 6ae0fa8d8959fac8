package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore journals batches in a SQLite database. Every dish and station
// a batch mentions is indexed in batch_refs so all filters run in SQL.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and applies the
// pending schema migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := MigrateSQLite(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps writes serialized
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return &SQLiteStore{db: db}, nil
}

// Append stores the record and its dish/station references in one
// transaction.
func (s *SQLiteStore) Append(ctx context.Context, rec LogRecord) (err error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO batches (ts, batch_id, record) VALUES (?, ?, ?)`,
		rec.Timestamp.UnixNano(), rec.BatchID, string(b))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for _, ref := range refsOf(rec) {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO batch_refs (batch, dish, station) VALUES (?, ?, ?)`,
			id, ref[0], ref[1]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// refsOf lists (dish, station) pairs. A failed dish has no station and a
// transfer has no dish.
func refsOf(rec LogRecord) [][2]string {
	refs := make([][2]string, 0, len(rec.Prepared)+len(rec.Failed)+len(rec.Replenishments))
	for _, p := range rec.Prepared {
		refs = append(refs, [2]string{p.Dish, p.Station})
	}
	for _, f := range rec.Failed {
		refs = append(refs, [2]string{f, ""})
	}
	for _, t := range rec.Replenishments {
		refs = append(refs, [2]string{"", t.Station})
	}
	return refs
}

// Query returns the batches matching q, oldest first.
func (s *SQLiteStore) Query(ctx context.Context, q LogQuery) ([]LogRecord, error) {
	var args []any
	query := `SELECT b.record FROM batches b WHERE 1=1`
	if !q.Start.IsZero() {
		query += ` AND b.ts >= ?`
		args = append(args, q.Start.UnixNano())
	}
	if !q.End.IsZero() {
		query += ` AND b.ts <= ?`
		args = append(args, q.End.UnixNano())
	}
	if q.BatchID != "" {
		query += ` AND b.batch_id = ?`
		args = append(args, q.BatchID)
	}
	if q.Dish != "" {
		query += ` AND EXISTS (SELECT 1 FROM batch_refs r WHERE r.batch = b.id AND r.dish = ?)`
		args = append(args, q.Dish)
	}
	if q.Station != "" {
		query += ` AND EXISTS (SELECT 1 FROM batch_refs r WHERE r.batch = b.id AND r.station = ?)`
		args = append(args, q.Station)
	}
	query += ` ORDER BY b.ts, b.id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []LogRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r LogRecord
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("decode batch record: %w", err)
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
