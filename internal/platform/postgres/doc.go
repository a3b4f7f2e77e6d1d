// Package postgres provides PostgreSQL implementations of the store
// interfaces. All implementations operate over a store.DBTX, so they work
// identically on a *sql.DB or within a *sql.Tx.
package postgres
