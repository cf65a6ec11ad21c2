/*
Package store keeps training datasets in a SQLite database and serves them as a
dataset.Source.

The pure Go driver (modernc.org/sqlite) is used by default; building with the
cgo_sqlite tag switches to github.com/mattn/go-sqlite3.
*/
package store
