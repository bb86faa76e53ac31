package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &ZapLogger{SugaredLogger: zap.New(core).Sugar()}

	l.With("key", "orders").Info("value written", "bytes", 3)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "value written", entries[0].Message)
		assert.Equal(t, map[string]any{"key": "orders", "bytes": int64(3)}, entries[0].ContextMap())
	}
}

func TestNewZapEnvironments(t *testing.T) {
	for _, env := range []string{EnvDevelopment, EnvProduction, "unknown"} {
		l := NewZap(env)
		assert.NotNil(t, l.SugaredLogger, env)
		l.Sync()
	}
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.Debug("dropped")
	l.With("a", 1).Error("dropped")
	l.Sync()
}
