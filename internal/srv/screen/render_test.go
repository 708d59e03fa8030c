package screen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testInstant = time.Date(2024, time.March, 5, 14, 30, 15, 0, time.UTC)

func TestRenderIsDeterministic(t *testing.T) {
	metrics := Metrics{CPUPct: 12.5, MemPct: 42.0, DiskPct: 73.1}

	for _, mode := range []Mode{OFF_MODE, CLOCK_MODE, SYSTEM_MODE, MESSAGE_MODE} {
		first := Render(mode, "same text", metrics, testInstant)
		second := Render(mode, "same text", metrics, testInstant)
		assert.True(t, first.Equal(second), "mode %s not deterministic", mode)
	}
}

func TestRenderModesDiffer(t *testing.T) {
	metrics := Metrics{CPUPct: 12.5, MemPct: 42.0, DiskPct: 73.1}

	off := Render(OFF_MODE, "", metrics, testInstant)
	clock := Render(CLOCK_MODE, "", metrics, testInstant)
	system := Render(SYSTEM_MODE, "", metrics, testInstant)

	assert.False(t, clock.Equal(off))
	assert.False(t, system.Equal(off))
	assert.False(t, clock.Equal(system))
}

func TestRenderOffIsBlank(t *testing.T) {
	off := Render(OFF_MODE, "ignored", Metrics{}, testInstant)
	assert.True(t, off.Equal(NewFrameBuffer()))
}

func TestRenderSystemUsesMetrics(t *testing.T) {
	low := Render(SYSTEM_MODE, "", Metrics{CPUPct: 1.0}, testInstant)
	high := Render(SYSTEM_MODE, "", Metrics{CPUPct: 99.0}, testInstant)
	assert.False(t, low.Equal(high))

	// Zeroed metrics still render, a degraded snapshot is a visual gap,
	// not an outage.
	degraded := Render(SYSTEM_MODE, "", Metrics{}, testInstant)
	assert.False(t, degraded.Equal(NewFrameBuffer()))
}

func TestRenderMessageLongTextTruncates(t *testing.T) {
	long := ""
	for i := 0; i < 500; i++ {
		long += "x"
	}
	require.NotPanics(t, func() {
		frame := Render(MESSAGE_MODE, long, Metrics{}, testInstant)
		assert.False(t, frame.Equal(NewFrameBuffer()))
	})
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{"hello world"}, wrapText("hello world", 19))
	assert.Equal(t, []string{"hello", "world"}, wrapText("hello world", 6))
	assert.Equal(t, []string{"aaaaaa", "aaa"}, wrapText("aaaaaaaaa", 6))
	assert.Nil(t, wrapText("   ", 6))
}

func TestParseMode(t *testing.T) {
	for name, expected := range map[string]Mode{
		"clock":  CLOCK_MODE,
		"system": SYSTEM_MODE,
		"off":    OFF_MODE,
	} {
		mode, ok := ParseMode(name)
		require.True(t, ok)
		assert.Equal(t, expected, mode)
	}

	// Message mode is only reachable through the message command.
	_, ok := ParseMode("message")
	assert.False(t, ok)
	_, ok = ParseMode("bogus")
	assert.False(t, ok)
}

func TestRenderUnknownModePanics(t *testing.T) {
	assert.Panics(t, func() {
		Render(Mode(42), "", Metrics{}, testInstant)
	})
}
