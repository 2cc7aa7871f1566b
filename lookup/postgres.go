package lookup

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/godamri/helix-audit/database"
)

// PostgresExecutor runs lookup queries stored in the platform's lookup
// catalog. The catalog row carries two query texts: one scoped by the
// owning record's tracking id, one scoped by a reference value. Each is
// expected to select a single display column.
type PostgresExecutor struct {
	db *sql.DB
}

func NewPostgresExecutor(db *sql.DB) *PostgresExecutor {
	return &PostgresExecutor{db: db}
}

func (e *PostgresExecutor) ExecuteSingle(ctx context.Context, businessKey string, trackingID int64) (string, bool, error) {
	query, err := e.queryText(ctx, businessKey, "by_record")
	if err != nil {
		return "", false, err
	}
	return e.runSingle(ctx, businessKey, query, trackingID)
}

func (e *PostgresExecutor) ExecuteForValue(ctx context.Context, businessKey string, value any) (string, bool, error) {
	query, err := e.queryText(ctx, businessKey, "by_value")
	if err != nil {
		return "", false, err
	}
	return e.runSingle(ctx, businessKey, query, value)
}

func (e *PostgresExecutor) queryText(ctx context.Context, businessKey, mode string) (string, error) {
	const q = `SELECT query_text FROM lookup_queries WHERE business_key = $1 AND mode = $2`

	var text string
	err := e.db.QueryRowContext(ctx, q, businessKey, mode).Scan(&text)
	if database.IsNoRows(err) {
		return "", fmt.Errorf("lookup: no %s query configured for %q", mode, businessKey)
	}
	if err != nil {
		return "", fmt.Errorf("lookup: load query %q (%s): %w", businessKey, mode, err)
	}
	return text, nil
}

// runSingle executes the configured query and enforces the 0-or-1-row
// contract. A second row is an integrity fault, not data.
func (e *PostgresExecutor) runSingle(ctx context.Context, businessKey, query string, arg any) (string, bool, error) {
	rows, err := e.db.QueryContext(ctx, query, arg)
	if err != nil {
		return "", false, fmt.Errorf("lookup: execute %q: %w", businessKey, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", false, fmt.Errorf("lookup: execute %q: %w", businessKey, err)
		}
		return "", false, nil
	}

	var display sql.NullString
	if err := rows.Scan(&display); err != nil {
		return "", false, fmt.Errorf("lookup: scan %q: %w", businessKey, err)
	}

	if rows.Next() {
		return "", false, fmt.Errorf("lookup: %q returned more than one row in single-result mode", businessKey)
	}

	return display.String, true, nil
}
