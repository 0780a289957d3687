// Package postgres implements the internal/store and internal/task
// persistence interfaces on PostgreSQL through database/sql and the pgx
// driver. The schema is embedded and applied with goose.
package postgres
