package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevels(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })
	for in, want := range map[string]string{
		"debug": "debug", "ERROR": "error", "fatal": "fatal", "info": "info", "bogus": "info",
	} {
		SetLevel(in)
		assert.Equal(t, want, GetLevel(), in)
	}
}

func TestWrapFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core))
	l.Info("hello", "k", 1)
	l.Debug("dbg", "a", "b")
	l.Error("oops")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "hello", entries[0].Message)
	assert.EqualValues(t, 1, entries[0].ContextMap()["k"])
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestNewHonoursLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })
	l := New("test", "error", true)
	require.NotNil(t, l)
	assert.Equal(t, "error", GetLevel())
	assert.NotNil(t, Zap(l))
}

func TestZapForeignLogger(t *testing.T) {
	type other struct{ Logger }
	assert.NotNil(t, Zap(other{}))
}
