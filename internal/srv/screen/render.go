package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Mode is the content type currently shown on the panel.
type Mode int

const (
	OFF_MODE Mode = iota
	CLOCK_MODE
	SYSTEM_MODE
	MESSAGE_MODE
)

func (m Mode) String() string {
	switch m {
	case OFF_MODE:
		return "off"
	case CLOCK_MODE:
		return "clock"
	case SYSTEM_MODE:
		return "system"
	case MESSAGE_MODE:
		return "message"
	}
	logrus.Panicf("unknown display mode %d", int(m))
	return ""
}

// ParseMode maps an api mode name to its Mode. Message mode is deliberately
// absent, it is only reachable through the message command which pairs the
// mode with its text.
func ParseMode(name string) (Mode, bool) {
	switch name {
	case "off":
		return OFF_MODE, true
	case "clock":
		return CLOCK_MODE, true
	case "system":
		return SYSTEM_MODE, true
	}
	return OFF_MODE, false
}

// Metrics is a point-in-time snapshot of host usage percentages.
type Metrics struct {
	CPUPct  float64
	MemPct  float64
	DiskPct float64
}

// Render produces a fresh frame for the given mode. It is deterministic:
// identical inputs yield pixel-identical buffers. The mapping is total, an
// unmatched mode is a programming error, not a runtime condition.
func Render(mode Mode, message string, metrics Metrics, now time.Time) *FrameBuffer {
	switch mode {
	case OFF_MODE:
		return NewFrameBuffer()
	case CLOCK_MODE:
		return renderClock(now)
	case SYSTEM_MODE:
		return renderSystem(metrics, now)
	case MESSAGE_MODE:
		return renderMessage(message)
	}
	logrus.Panicf("no renderer for display mode %d", int(mode))
	return nil
}

const cornerTickLen = 5

func renderClock(now time.Time) *FrameBuffer {
	f := NewFrameBuffer()

	timeStr := now.Format("15:04:05")
	f.DrawTextDouble((Width-2*TextWidth(timeStr))/2, 10, timeStr)

	dateStr := now.Format("2006-01-02")
	f.DrawText((Width-TextWidth(dateStr))/2, 46, dateStr)

	dayStr := now.Format("Monday")
	f.DrawText((Width-TextWidth(dayStr))/2, 58, dayStr)

	f.DrawRect(f.Bounds())
	for i := 0; i < cornerTickLen; i++ {
		f.SetPixel(i, 1, true)
		f.SetPixel(Width-1-i, 1, true)
		f.SetPixel(i, Height-2, true)
		f.SetPixel(Width-1-i, Height-2, true)
	}
	return f
}

func renderSystem(metrics Metrics, now time.Time) *FrameBuffer {
	f := NewFrameBuffer()
	lines := []string{
		"Time: " + now.Format("15:04"),
		fmt.Sprintf("CPU:  %.1f%%", metrics.CPUPct),
		fmt.Sprintf("RAM:  %.1f%%", metrics.MemPct),
		fmt.Sprintf("Disk: %.1f%%", metrics.DiskPct),
		"Raspberry Pi",
	}
	for i, line := range lines {
		f.DrawText(2, fontAscent+i*LineHeight, line)
	}
	return f
}

const (
	messageMargin   = 5
	messageMaxLines = 5
)

func renderMessage(message string) *FrameBuffer {
	f := NewFrameBuffer()

	lines := wrapText(message, (Width-2*messageMargin)/CharWidth)
	if len(lines) > messageMaxLines {
		// Overflowing lines are truncated, scrolling is out of scope.
		lines = lines[:messageMaxLines]
	}

	top := (Height - len(lines)*LineHeight) / 2
	if top < 0 {
		top = 0
	}
	for i, line := range lines {
		f.DrawText((Width-TextWidth(line))/2, top+i*LineHeight+fontAscent, line)
	}
	return f
}

// wrapText word-wraps message to maxChars columns. Words longer than a
// whole line are split.
func wrapText(message string, maxChars int) []string {
	var lines []string
	var current string
	for _, word := range strings.Fields(message) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if len(candidate) <= maxChars {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		for len(word) > maxChars {
			lines = append(lines, word[:maxChars])
			word = word[maxChars:]
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
