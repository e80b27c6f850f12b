package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/tribeshub/backend/internal/middleware"
	"github.com/tribeshub/backend/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandler_AddsCorrelationIDAndUser(t *testing.T) {
	var b bytes.Buffer
	logger := slog.New(New(slog.NewJSONHandler(&b, nil)))

	ctx := middleware.NewContextWithCorrelationID(context.Background(), "some-id")
	ctx = model.NewContextWithUser(ctx, &model.User{ID: 42})

	logger.InfoContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(b.Bytes(), &record))
	assert.Equal(t, "some-id", record["correlationId"])
	assert.Equal(t, float64(42), record["userId"])
}

func TestContextHandler_NoContextValues(t *testing.T) {
	var b bytes.Buffer
	logger := slog.New(New(slog.NewJSONHandler(&b, nil)))

	logger.InfoContext(context.Background(), "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(b.Bytes(), &record))
	assert.NotContains(t, record, "correlationId")
	assert.NotContains(t, record, "userId")
}
