package controller

import (
	"context"
	"errors"
	"image"
	"strings"
	"sync"
	"time"

	"github.com/mbonnet/oledsrv/internal/srv/screen"
	"github.com/sirupsen/logrus"
)

// ErrInvalidParameter rejects a command synchronously, the display state is
// left unchanged.
var ErrInvalidParameter = errors.New("invalid parameter")

// Transport pushes a finished frame to the physical panel. Commit may fail
// transiently, the controller records the failure and retries on the next
// tick. The controller only calls Commit from one goroutine at a time.
type Transport interface {
	Commit(img image.Image) error
}

// MetricsSource supplies best-effort host usage snapshots for the system
// mode. Snapshot never fails, failed probes come back zeroed.
type MetricsSource interface {
	Snapshot(ctx context.Context) (screen.Metrics, time.Time)
}

// Status is a read-only copy of the controller state.
type Status struct {
	Mode            screen.Mode
	Message         string
	LastRenderAt    time.Time
	LastCommitError error
	Dirty           bool
}

// Controller owns the active display mode and the last rendered frame, and
// keeps the panel refreshed on a periodic tick. Commands and the refresh
// loop share the state through a single lock which is never held across
// metrics collection, rendering or the hardware commit.
type Controller struct {
	transport Transport
	metrics   MetricsSource
	interval  time.Duration

	lock          sync.RWMutex
	mode          screen.Mode
	message       string
	lastFrame     *screen.FrameBuffer
	lastRenderAt  time.Time
	lastCommitErr error
	dirty         bool

	ticker  *time.Ticker
	askDone chan bool
	done    chan bool
}

func New(transport Transport, metrics MetricsSource, interval time.Duration) *Controller {
	return &Controller{
		transport: transport,
		metrics:   metrics,
		interval:  interval,
		mode:      screen.OFF_MODE,
		dirty:     true,
		askDone:   make(chan bool),
		done:      make(chan bool),
	}
}

// Start launches the periodic refresh loop and puts a first frame on the
// panel. The loop runs until Stop, a commit failure never suppresses
// future ticks.
func (c *Controller) Start() {
	logrus.Infof("Start display controller")

	c.refresh()

	c.ticker = time.NewTicker(c.interval)
	go func() {
		for loop := true; loop; {
			select {
			case <-c.ticker.C:
				c.refresh()
			case <-c.askDone:
				loop = false
			}
		}
		c.done <- true
	}()
}

func (c *Controller) Stop() {
	logrus.Infof("Stop display controller")
	c.ticker.Stop()
	c.askDone <- true
	<-c.done
}

// SetMode switches the active mode and immediately re-renders, a mode
// change is visible without waiting for the next tick. Message mode is
// rejected here, it is only reachable through SetMessage.
func (c *Controller) SetMode(mode screen.Mode) error {
	switch mode {
	case screen.OFF_MODE, screen.CLOCK_MODE, screen.SYSTEM_MODE:
	default:
		return ErrInvalidParameter
	}

	c.lock.Lock()
	c.mode = mode
	c.dirty = true
	c.lock.Unlock()

	logrus.Infof("Display mode set to %s", mode)
	c.refresh()
	return nil
}

// SetMessage installs the message text and switches to message mode in one
// step, so a concurrent reader never observes a torn mode/text pairing.
// A message that is empty after trimming is rejected.
func (c *Controller) SetMessage(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrInvalidParameter
	}

	c.lock.Lock()
	c.mode = screen.MESSAGE_MODE
	c.message = text
	c.dirty = true
	c.lock.Unlock()

	logrus.Infof("Display mode set to message")
	c.refresh()
	return nil
}

// Clear blanks the panel. It switches to off mode and commits a fresh
// all-off buffer, so the hardware is blanked even if a stale frame was
// still queued. Idempotent.
func (c *Controller) Clear() error {
	c.lock.Lock()
	c.mode = screen.OFF_MODE
	c.dirty = true
	c.lock.Unlock()

	logrus.Infof("Display cleared")
	return c.refresh()
}

// Status returns a copy of the controller state without rendering or
// touching hardware, it is safe to call at any rate.
func (c *Controller) Status() Status {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return Status{
		Mode:            c.mode,
		Message:         c.message,
		LastRenderAt:    c.lastRenderAt,
		LastCommitError: c.lastCommitErr,
		Dirty:           c.dirty,
	}
}

// Test forces one render-and-commit cycle of the active mode and reports
// the transport's verdict. Purely diagnostic, the displayed state is not
// mutated.
func (c *Controller) Test() error {
	logrus.Debugf("Display test")
	return c.refresh()
}

// refresh runs one render-and-commit cycle. The lock is only held to copy
// the mode/message pair and to install the finished frame, metrics
// collection, rendering and the hardware commit all happen lock-free so a
// slow transport never stalls a concurrent command.
func (c *Controller) refresh() error {
	c.lock.RLock()
	mode := c.mode
	message := c.message
	c.lock.RUnlock()

	metrics, now := c.metrics.Snapshot(context.Background())
	frame := screen.Render(mode, message, metrics, now)

	c.lock.Lock()
	if c.mode != mode || c.message != message {
		// The state changed while rendering, the mutation already
		// triggered its own refresh with the newer content.
		c.lock.Unlock()
		return nil
	}
	c.lastFrame = frame
	c.lastRenderAt = now
	c.dirty = false
	c.lock.Unlock()

	err := c.transport.Commit(frame)

	c.lock.Lock()
	c.lastCommitErr = err
	c.lock.Unlock()

	if err != nil {
		logrus.Warningf("Display commit failed: %v", err)
	}
	return err
}
