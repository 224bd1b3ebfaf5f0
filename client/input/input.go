package input

import (
	"sort"

	"github.com/cbodonnell/drivesim/pkg/vehicle"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyState reports key edges for the current frame.
type KeyState interface {
	IsKeyJustPressed(key ebiten.Key) bool
	IsKeyJustReleased(key ebiten.Key) bool
}

// EbitenKeyState reads key edges from ebiten.
type EbitenKeyState struct{}

func (EbitenKeyState) IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

func (EbitenKeyState) IsKeyJustReleased(key ebiten.Key) bool {
	return inpututil.IsKeyJustReleased(key)
}

// DefaultKeyBindings maps the arrow keys and WASD to directions.
func DefaultKeyBindings() map[ebiten.Key]vehicle.Direction {
	return map[ebiten.Key]vehicle.Direction{
		ebiten.KeyArrowUp:    vehicle.DirectionForward,
		ebiten.KeyArrowDown:  vehicle.DirectionReverse,
		ebiten.KeyArrowLeft:  vehicle.DirectionLeft,
		ebiten.KeyArrowRight: vehicle.DirectionRight,
		ebiten.KeyW:          vehicle.DirectionForward,
		ebiten.KeyS:          vehicle.DirectionReverse,
		ebiten.KeyA:          vehicle.DirectionLeft,
		ebiten.KeyD:          vehicle.DirectionRight,
	}
}

// Tracker turns key edges into direction presses and releases. A direction
// bound to several keys stays pressed until the last of them is released.
type Tracker struct {
	bindings map[ebiten.Key]vehicle.Direction
	keys     []ebiten.Key
	held     map[vehicle.Direction]int
}

func NewTracker(bindings map[ebiten.Key]vehicle.Direction) *Tracker {
	keys := make([]ebiten.Key, 0, len(bindings))
	for key := range bindings {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return &Tracker{
		bindings: bindings,
		keys:     keys,
		held:     make(map[vehicle.Direction]int),
	}
}

// Changes returns the direction changes caused by this frame's key edges.
func (t *Tracker) Changes(state KeyState) []vehicle.InputChange {
	var changes []vehicle.InputChange
	for _, key := range t.keys {
		direction := t.bindings[key]
		if state.IsKeyJustPressed(key) {
			t.held[direction]++
			if t.held[direction] == 1 {
				changes = append(changes, vehicle.InputChange{Direction: direction, Pressed: true})
			}
		}
		if state.IsKeyJustReleased(key) && t.held[direction] > 0 {
			t.held[direction]--
			if t.held[direction] == 0 {
				changes = append(changes, vehicle.InputChange{Direction: direction, Pressed: false})
			}
		}
	}
	return changes
}

// IsQuitJustPressed returns a boolean value indicating whether the quit key is just pressed.
func IsQuitJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

// IsDebugJustPressed returns a boolean value indicating whether the debug overlay toggle is just pressed.
func IsDebugJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyF3)
}
