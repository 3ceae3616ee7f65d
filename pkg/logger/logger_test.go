package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureEntry(t *testing.T, log func(l *Logger)) Entry {
	t.Helper()
	var buf bytes.Buffer
	log(New(Options{Output: &buf, Level: LevelDebug}))

	var entry Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogger_WritesStructuredFields(t *testing.T) {
	entry := captureEntry(t, func(l *Logger) {
		l.Info("http request",
			String("method", "GET"),
			Int("status", 200),
			Int64("duration_ms", int64(1500)),
			Bool("cached", false),
		)
	})

	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "http request", entry.Message)
	assert.Equal(t, "GET", entry.Fields["method"])
	// json.Unmarshal turns numbers into float64.
	assert.Equal(t, float64(200), entry.Fields["status"])
	assert.Equal(t, float64(1500), entry.Fields["duration_ms"])
	assert.Equal(t, false, entry.Fields["cached"])
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Output: &buf, Level: LevelError})

	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("dropped")
	assert.Zero(t, buf.Len())

	l.Error("kept")
	assert.NotZero(t, buf.Len())
}

func TestLogger_WithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Output: &buf, Level: LevelDebug}).With(Component("command.login"))

	l.Info("logged in", MemberID("m-1"))

	var entry Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "command.login", entry.Fields["component"])
	assert.Equal(t, "m-1", entry.Fields["member_id"])
}

func TestErrField(t *testing.T) {
	assert.Nil(t, Err(nil).Value)
	assert.Equal(t, "boom", Err(errors.New("boom")).Value)
}

func TestDurationField(t *testing.T) {
	f := Duration("latency", 250*time.Millisecond)
	assert.Equal(t, "250ms", f.Value)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}
