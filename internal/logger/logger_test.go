package logger

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)
	fn()
	return buf.String()
}

func TestEnvLogger_DebugGatedOnEnv(t *testing.T) {
	l := NewEnvLogger("[test]")

	t.Setenv("HOSTWATCH_DEBUG", "")
	out := captureOutput(t, func() { l.Debug("hidden %d", 1) })
	assert.Empty(t, out)

	t.Setenv("HOSTWATCH_DEBUG", "1")
	out = captureOutput(t, func() { l.Debug("visible %d", 2) })
	assert.Contains(t, out, "[test] visible 2")
}

func TestEnvLogger_LevelsAlwaysLog(t *testing.T) {
	l := NewEnvLogger("[poll]")
	t.Setenv("HOSTWATCH_DEBUG", "")

	out := captureOutput(t, func() {
		l.Info("started")
		l.Warn("slow tick")
		l.Error("gave up")
	})

	assert.Contains(t, out, "[poll] started")
	assert.Contains(t, out, "[poll] WARN: slow tick")
	assert.Contains(t, out, "[poll] ERROR: gave up")
}

func TestNoop_DiscardsEverything(t *testing.T) {
	l := Noop()
	out := captureOutput(t, func() {
		l.Debug("a")
		l.Info("b")
		l.Warn("c")
		l.Error("d")
	})
	assert.Empty(t, out)
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("host %d", 3)
	l.Warn("poll failed")

	require.Len(t, l.Messages, 2)
	assert.Equal(t, "debug", l.Messages[0].Level)
	assert.Equal(t, "host 3", l.Messages[0].Message)

	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("error"))

	l.Clear()
	assert.Empty(t, l.Messages)
	assert.False(t, l.HasLevel("warn"))
}
