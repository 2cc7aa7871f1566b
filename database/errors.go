package database

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

// IsNoRows reports whether err is the single-row-lookup "absent" case.
// The store and lookup adapters translate it to a found=false result;
// everything else propagates. Both sentinels are checked because the
// pgx stdlib driver surfaces sql.ErrNoRows through *sql.DB while native
// pgx callers see pgx.ErrNoRows.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
