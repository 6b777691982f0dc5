// Package store persists the incentive ledger in SQLite. Every store can be
// rebound to an open transaction with WithTx so balance checks and the
// dependent write commit atomically.
package store

import "database/sql"

// dbtx is satisfied by *sql.DB and *sql.Tx.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}
