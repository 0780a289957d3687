package shared

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/google/uuid"
)

// ContextKey is the type of request context keys set by the middleware.
type ContextKey string

// Context keys for various values
const (
	// UserIDContextKey is the context key for the authenticated farmer's ID
	UserIDContextKey ContextKey = "userID"

	// RoleContextKey is the context key for the authenticated farmer's role
	RoleContextKey ContextKey = "role"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of bytes used to generate the trace ID
	TraceIDLength = 16 // 32 hex characters
)

// WithFarmer stores the authenticated farmer in ctx.
func WithFarmer(ctx context.Context, farmerID uuid.UUID, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, UserIDContextKey, farmerID)
	return context.WithValue(ctx, RoleContextKey, role)
}

// FarmerID returns the authenticated farmer's ID, if any.
func FarmerID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDContextKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// Role returns the authenticated farmer's role, or "" when unauthenticated.
func Role(ctx context.Context) domain.Role {
	r, _ := ctx.Value(RoleContextKey).(domain.Role)
	return r
}

// TraceHeader carries the trace ID on requests and responses.
const TraceHeader = "X-Trace-ID"

// NewTraceID returns TraceIDLength random bytes as lowercase hex. If the
// random source fails it falls back to a time-based ID, never a static one.
func NewTraceID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		slog.Error("failed to generate random trace ID", "error", err, "fallback", "time-based")
		return fallbackTraceID(time.Now())
	}
	return hex.EncodeToString(id[:])
}

// ValidTraceID reports whether s looks like a trace ID this service issues,
// so a caller-supplied header can be propagated.
func ValidTraceID(s string) bool {
	if len(s) != TraceIDLength*2 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// WithTraceID stores id in ctx.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

// SetTraceID adds a fresh trace ID to ctx.
func SetTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, NewTraceID())
}

// GetTraceID returns the trace ID in ctx, or "".
func GetTraceID(ctx context.Context) string {
	id, _ := ctx.Value(TraceIDKey).(string)
	return id
}

func fallbackTraceID(now time.Time) string {
	id := make([]byte, TraceIDLength)
	binary.BigEndian.PutUint64(id[:8], uint64(now.UnixNano()))
	binary.BigEndian.PutUint64(id[8:], fallbackSeq.Add(1))
	return hex.EncodeToString(id)
}

var fallbackSeq atomic.Uint64
