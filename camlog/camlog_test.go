package camlog

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabledReflectsConfiguredLevel(t *testing.T) {
	defer SetLogger(slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelWarn})))

	SetLogger(slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelWarn})))
	assert.False(t, Enabled())

	SetLogger(slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelDebug})))
	assert.True(t, Enabled())
}

func TestDebugfWritesOnlyWhenEnabled(t *testing.T) {
	defer SetLogger(slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelWarn})))

	var quiet bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelWarn})))
	Debugf("unreachable %d", 1)
	assert.Empty(t, quiet.String())

	var loud bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&loud, &slog.HandlerOptions{Level: slog.LevelDebug})))
	Debugf("value=%d", 42)
	assert.Contains(t, loud.String(), "value=42")
}
