package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"delivery-insight-tui/internal/models"
)

// SaveOffices replaces the cached office directory, preserving order.
func (db *DB) SaveOffices(offices []models.Office) error {
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin offices transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM offices"); err != nil {
		return fmt.Errorf("failed to clear offices: %w", err)
	}
	for i, o := range offices {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO offices (id, name, position) VALUES (?, ?, ?)",
			o.ID, o.Name, i)
		if err != nil {
			return fmt.Errorf("failed to insert office %s: %w", o.ID, err)
		}
	}
	return tx.Commit()
}

// LoadOffices returns the cached office directory in its original order.
// An empty cache yields an empty slice, not an error.
func (db *DB) LoadOffices() ([]models.Office, error) {
	rows, err := db.QueryContext(context.Background(),
		"SELECT id, name FROM offices ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query offices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var offices []models.Office
	for rows.Next() {
		var o models.Office
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, fmt.Errorf("failed to scan office: %w", err)
		}
		offices = append(offices, o)
	}
	return offices, rows.Err()
}

// SaveReport caches a report payload under its canonical filter query.
func (db *DB) SaveReport(query string, report *models.ReportData, fetchedAt time.Time) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = db.ExecContext(context.Background(), `
		INSERT INTO report_cache (query, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(query) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		query, string(payload), fetchedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// LoadReport returns the cached report for a filter query. A cache miss
// returns (nil, zero time, nil).
func (db *DB) LoadReport(query string) (*models.ReportData, time.Time, error) {
	var payload string
	var fetchedAt string
	err := db.QueryRowContext(context.Background(),
		"SELECT payload, fetched_at FROM report_cache WHERE query = ?", query).
		Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load report: %w", err)
	}

	var report models.ReportData
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to unmarshal cached report: %w", err)
	}
	ts, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		ts = time.Time{}
	}
	return &report, ts, nil
}

// PruneReports drops cache entries fetched before the cutoff and returns the
// number removed.
func (db *DB) PruneReports(before time.Time) (int64, error) {
	res, err := db.ExecContext(context.Background(),
		"DELETE FROM report_cache WHERE fetched_at < ?",
		before.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to prune reports: %w", err)
	}
	return res.RowsAffected()
}
