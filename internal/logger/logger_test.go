package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerAddsModuleAndDetails(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := New(zap.New(core))

	l.Info("transport", "response received", map[string]interface{}{"status": 200})
	l.Debug("core", "turn appended", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "response received", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "transport", ctx["module"])
	assert.EqualValues(t, 200, ctx["status"])

	assert.Equal(t, "core", entries[1].ContextMap()["module"])
}

func TestNopLoggerIsSilent(t *testing.T) {
	l := Nop()
	assert.NotPanics(t, func() {
		l.Error("core", "ignored", map[string]interface{}{"k": "v"})
	})
	assert.NoError(t, l.Sync())
}
