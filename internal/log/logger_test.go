package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCorrelationID_UsesContextValue(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	ctx := context.WithValue(context.Background(), CorrelatedIDKey, "abc-123")
	logger.WithCorrelationID(ctx).Info("registered")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "abc-123", record["correlation_id"])
	assert.Equal(t, "registered", record["msg"])
}

func TestGetOrGenerateCorrelationID_GeneratesWhenMissing(t *testing.T) {
	id := GetOrGenerateCorrelationID(context.Background())
	assert.Len(t, id, 36)
	assert.NotEqual(t, id, GetOrGenerateCorrelationID(context.Background()))
}

func TestGetLoggerInstanceFromContext(t *testing.T) {
	injected := NewLogger(&bytes.Buffer{})
	fallback := NewLogger(&bytes.Buffer{})

	t.Run("returns injected logger", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), LoggerKeyForContext, injected)
		assert.Same(t, injected, GetLoggerInstanceFromContext(ctx, fallback))
	})

	t.Run("derives from fallback", func(t *testing.T) {
		got := GetLoggerInstanceFromContext(context.Background(), fallback)
		assert.NotNil(t, got)
		assert.NotSame(t, fallback, got)
	})

	t.Run("nil context returns fallback", func(t *testing.T) {
		assert.Same(t, fallback, GetLoggerInstanceFromContext(nil, fallback))
	})
}
