package input_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"render-sandbox/input"
)

func TestFirstCursorEventAddsNoDelta(t *testing.T) {
	tr := input.NewTracker()
	tr.CursorPos(400, 300)
	s := tr.Snapshot()
	assert.Equal(t, 400.0, s.CursorX)
	assert.Zero(t, s.DeltaX)
	assert.Zero(t, s.DeltaY)

	tr.CursorPos(410, 295)
	tr.CursorPos(415, 290)
	s = tr.Snapshot()
	assert.Equal(t, 15.0, s.DeltaX)
	assert.Equal(t, -10.0, s.DeltaY)
}

func TestSnapshotResetsDeltas(t *testing.T) {
	tr := input.NewTracker()
	tr.CursorPos(0, 0)
	tr.CursorPos(5, 5)
	tr.Scroll(0, 1)
	tr.Scroll(0, 2)

	s := tr.Snapshot()
	assert.Equal(t, 3.0, s.ScrollY)
	assert.Equal(t, 5.0, s.DeltaX)

	s = tr.Snapshot()
	assert.Zero(t, s.ScrollY)
	assert.Zero(t, s.DeltaX)
	assert.Equal(t, 5.0, s.CursorX, "position persists")
}

func TestKeys(t *testing.T) {
	tr := input.NewTracker()
	tr.Key(input.KeyF, true)
	tr.Key(input.KeyF, true) // repeat

	s := tr.Snapshot()
	assert.True(t, s.Pressed(input.KeyF))
	assert.True(t, s.Down(input.KeyF))

	s = tr.Snapshot()
	assert.False(t, s.Pressed(input.KeyF), "press is reported once")
	assert.True(t, s.Down(input.KeyF))

	tr.Key(input.KeyF, false)
	s = tr.Snapshot()
	assert.False(t, s.Down(input.KeyF))
}

func TestQuickTapIsNotLost(t *testing.T) {
	tr := input.NewTracker()
	tr.Key(input.KeySpace, true)
	tr.Key(input.KeySpace, false)
	s := tr.Snapshot()
	assert.True(t, s.Pressed(input.KeySpace))
	assert.False(t, s.Down(input.KeySpace))
}

func TestSnapshotIsIsolated(t *testing.T) {
	tr := input.NewTracker()
	tr.Button(input.ButtonLeft, true)
	s := tr.Snapshot()

	tr.Button(input.ButtonLeft, false)
	assert.True(t, s.ButtonDown(input.ButtonLeft), "later events do not change a taken snapshot")
	assert.True(t, s.Clicked(input.ButtonLeft))

	next := tr.Snapshot()
	assert.False(t, next.ButtonDown(input.ButtonLeft))
	assert.False(t, next.Clicked(input.ButtonLeft))
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "r", input.KeyR.String())
	assert.Equal(t, "escape", input.KeyEscape.String())
	assert.Equal(t, "key(290)", input.Key(290).String())
}
