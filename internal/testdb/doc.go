// Package testdb opens a migrated PostgreSQL database for integration tests
// and isolates each test in a rolled-back transaction.
package testdb
