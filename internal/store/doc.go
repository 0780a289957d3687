// Package store defines the persistence interfaces for farmers, queries and
// plant scans. Services depend on these interfaces; internal/platform/postgres
// provides the implementations.
package store
