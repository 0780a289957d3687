package shared

import (
	"context"
	"testing"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	traced := SetTraceID(ctx)
	id := GetTraceID(traced)
	assert.Len(t, id, 32)
	assert.True(t, ValidTraceID(id))
	assert.Empty(t, GetTraceID(ctx), "parent context must not change")

	assert.Empty(t, GetTraceID(context.WithValue(ctx, TraceIDKey, 123)))
}

func TestNewTraceID_Unique(t *testing.T) {
	seen := make(map[string]bool, 500)
	for i := 0; i < 500; i++ {
		id := NewTraceID()
		assert.False(t, seen[id], "duplicate trace ID %s", id)
		seen[id] = true
	}
}

func TestFallbackTraceID(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	a, b := fallbackTraceID(now), fallbackTraceID(now)

	assert.True(t, ValidTraceID(a))
	assert.NotEqual(t, a, b, "same instant must still give distinct IDs")
}

func TestValidTraceID(t *testing.T) {
	tests := map[string]bool{
		"0123456789abcdef0123456789abcdef":  true,
		"0123456789ABCDEF0123456789ABCDEF":  false,
		"0123456789abcdef":                  false,
		"0123456789abcdef0123456789abcdeg":  false,
		"0123456789abcdef0123456789abcdef0": false,
		"":                                  false,
	}
	for in, want := range tests {
		assert.Equal(t, want, ValidTraceID(in), in)
	}
}

func TestWithFarmer(t *testing.T) {
	ctx := context.Background()
	_, ok := FarmerID(ctx)
	assert.False(t, ok)
	assert.Empty(t, Role(ctx))

	id := uuid.New()
	ctx = WithFarmer(ctx, id, domain.RoleAdmin)

	got, ok := FarmerID(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, domain.RoleAdmin, Role(ctx))

	_, ok = FarmerID(WithFarmer(context.Background(), uuid.Nil, domain.RoleUser))
	assert.False(t, ok)
}
