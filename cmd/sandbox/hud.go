package main

import (
	"fmt"
	"strings"
	"time"
)

// DebugOverlay collects status fields shown in the window title.
type DebugOverlay struct {
	fields []string
}

func (do *DebugOverlay) AddField(format string, args ...any) {
	do.fields = append(do.fields, fmt.Sprintf(format, args...))
}

func (do *DebugOverlay) Clear() {
	do.fields = do.fields[:0]
}

func (do *DebugOverlay) Text() string {
	return strings.Join(do.fields, " | ")
}

// fpsCounter counts frames and reports the rate once per interval.
type fpsCounter struct {
	interval time.Duration
	start    time.Time
	frames   int
	fps      float64
}

func newFPSCounter(now time.Time) *fpsCounter {
	return &fpsCounter{interval: time.Second, start: now}
}

// Frame records one frame and reports whether a new rate is available.
func (c *fpsCounter) Frame(now time.Time) bool {
	c.frames++
	elapsed := now.Sub(c.start)
	if elapsed < c.interval {
		return false
	}
	c.fps = float64(c.frames) / elapsed.Seconds()
	c.frames = 0
	c.start = now
	return true
}

func (c *fpsCounter) FPS() float64 { return c.fps }
