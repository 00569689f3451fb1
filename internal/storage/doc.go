// Package storage persists the id of the last video that was announced.
//
// Drivers:
//   - "file": a single-line text file, replaced atomically on save
//   - "sqlite": SQLite database file, one row per key
//   - "postgres": PostgreSQL table, one row per key
//   - "gcs": a single Cloud Storage object (gs://bucket/object)
//
// Load returns "" when nothing has been recorded yet.
package storage
