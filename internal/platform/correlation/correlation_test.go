package correlation

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.Len(t, id, 8)
		assert.False(t, seen[id], "duplicate correlation ID %s", id)
		seen[id] = true
	}
}

func TestWithID_RoundTrip(t *testing.T) {
	ctx := WithID(context.Background(), "abcd1234")
	id, ok := ID(ctx)
	require.True(t, ok)
	assert.Equal(t, "abcd1234", id)
}

func TestID_Absent(t *testing.T) {
	_, ok := ID(context.Background())
	assert.False(t, ok)
}

func TestHandler_InjectsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewTextHandler(&buf, nil)))

	ctx := WithID(context.Background(), "deadbeef")
	logger.InfoContext(ctx, "hello")

	assert.Contains(t, buf.String(), "correlation_id=deadbeef")
}

func TestHandler_NoIDNoAttribute(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewTextHandler(&buf, nil)))

	logger.InfoContext(context.Background(), "hello")

	assert.NotContains(t, buf.String(), "correlation_id")
}
