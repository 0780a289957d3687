// Package api holds the HTTP handlers. Each handler decodes and validates a
// request, calls one service and maps the result, or its error, to JSON.
package api
