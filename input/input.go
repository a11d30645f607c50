// Package input turns window callbacks into one immutable snapshot per
// frame.
//
// Callbacks feed a Tracker as events arrive. The frame loop calls Snapshot
// once per frame, which hands out the accumulated state and resets the
// per-frame deltas, so nothing observes a half-updated frame and no
// process-wide variables are involved.
package input

import (
	"maps"
	"strconv"
)

// Key is a keyboard key. Values match GLFW key codes.
type Key int

const (
	KeySpace  Key = 32
	KeyA      Key = 65
	KeyD      Key = 68
	KeyF      Key = 70
	KeyR      Key = 82
	KeyS      Key = 83
	KeyW      Key = 87
	KeyEscape Key = 256
)

func (k Key) String() string {
	switch k {
	case KeySpace:
		return "space"
	case KeyEscape:
		return "escape"
	}
	if k >= KeyA && k <= 90 {
		return string(rune('a' + (k - KeyA)))
	}
	return "key(" + strconv.Itoa(int(k)) + ")"
}

// Button is a mouse button. Values match GLFW button codes.
type Button int

const (
	ButtonLeft   Button = 0
	ButtonRight  Button = 1
	ButtonMiddle Button = 2
)

// Tracker accumulates events between snapshots. It is meant to be fed from
// the thread that polls window events and is not safe for concurrent use.
type Tracker struct {
	x, y      float64
	dx, dy    float64
	hasCursor bool
	sx, sy    float64
	keys      map[Key]bool
	pressed   map[Key]bool
	buttons   map[Button]bool
	clicked   map[Button]bool
}

// NewTracker returns a tracker with no keys down.
func NewTracker() *Tracker {
	return &Tracker{
		keys:    make(map[Key]bool),
		pressed: make(map[Key]bool),
		buttons: make(map[Button]bool),
		clicked: make(map[Button]bool),
	}
}

// CursorPos records a cursor position in window coordinates. The first
// position establishes the origin and adds no delta.
func (t *Tracker) CursorPos(x, y float64) {
	if t.hasCursor {
		t.dx += x - t.x
		t.dy += y - t.y
	}
	t.x, t.y = x, y
	t.hasCursor = true
}

// Scroll adds a scroll offset.
func (t *Tracker) Scroll(dx, dy float64) {
	t.sx += dx
	t.sy += dy
}

// Key records a key transition. Repeats should be reported as presses.
func (t *Tracker) Key(k Key, down bool) {
	if down {
		if !t.keys[k] {
			t.pressed[k] = true
		}
		t.keys[k] = true
		return
	}
	delete(t.keys, k)
}

// Button records a mouse button transition.
func (t *Tracker) Button(b Button, down bool) {
	if down {
		if !t.buttons[b] {
			t.clicked[b] = true
		}
		t.buttons[b] = true
		return
	}
	delete(t.buttons, b)
}

// Snapshot returns the input state for the frame and resets cursor and
// scroll deltas and the just-pressed sets.
func (t *Tracker) Snapshot() Snapshot {
	s := Snapshot{
		CursorX: t.x,
		CursorY: t.y,
		DeltaX:  t.dx,
		DeltaY:  t.dy,
		ScrollX: t.sx,
		ScrollY: t.sy,
		keys:    maps.Clone(t.keys),
		pressed: t.pressed,
		buttons: maps.Clone(t.buttons),
		clicked: t.clicked,
	}
	t.dx, t.dy = 0, 0
	t.sx, t.sy = 0, 0
	t.pressed = make(map[Key]bool)
	t.clicked = make(map[Button]bool)
	return s
}

// Snapshot is the input of one frame.
type Snapshot struct {
	CursorX, CursorY float64
	// DeltaX and DeltaY are the cursor movement since the previous snapshot.
	DeltaX, DeltaY float64
	// ScrollX and ScrollY are the scroll offset since the previous snapshot.
	ScrollX, ScrollY float64

	keys    map[Key]bool
	pressed map[Key]bool
	buttons map[Button]bool
	clicked map[Button]bool
}

// Down reports whether k is held.
func (s Snapshot) Down(k Key) bool { return s.keys[k] }

// Pressed reports whether k went down since the previous snapshot.
func (s Snapshot) Pressed(k Key) bool { return s.pressed[k] }

// ButtonDown reports whether b is held.
func (s Snapshot) ButtonDown(b Button) bool { return s.buttons[b] }

// Clicked reports whether b went down since the previous snapshot.
func (s Snapshot) Clicked(b Button) bool { return s.clicked[b] }
