package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	ctx := context.Background()

	prod := setupLogger("prod")
	assert.False(t, prod.Enabled(ctx, slog.LevelDebug))
	assert.True(t, prod.Enabled(ctx, slog.LevelInfo))

	for _, env := range []string{"staging", "dev", ""} {
		assert.True(t, setupLogger(env).Enabled(ctx, slog.LevelDebug), env)
	}
}
