// Package sim hosts the simulator frontends: a virtual switch matrix
// standing in for the GPIO scanner, plus terminal and headless
// backends that drive it.
package sim

import (
	"github.com/TeXitoi/keyberon/firmware"
	"github.com/TeXitoi/keyberon/keymap"
)

// Custom is the payload type simulated keymaps use for Custom actions.
type Custom uint8

const (
	// Reset simulates a jump to the bootloader.
	Reset Custom = iota
	// BacklightToggle simulates a backlight driver hook.
	BacklightToggle
)

func (c Custom) String() string {
	switch c {
	case Reset:
		return "reset"
	case BacklightToggle:
		return "backlight_toggle"
	default:
		return "unknown"
	}
}

// CustomActions returns the custom action names a simulated keymap may
// reference.
func CustomActions() map[string]Custom {
	return map[string]Custom{
		"reset":            Reset,
		"backlight_toggle": BacklightToggle,
	}
}

// Config holds what a backend needs to run a simulation.
type Config struct {
	Matrix *VirtualMatrix
	Keymap *keymap.Keymap[Custom]
	// Ticks bounds a headless run; 0 means no bound.
	Ticks int
	// ScriptPath names a headless event script.
	ScriptPath string
}

// Backend runs the interactive or scripted side of the simulation.
// Step executes one scan cycle end to end: gather input into the
// virtual matrix, tick the firmware, present the result. It returns
// false when the simulation should stop.
type Backend interface {
	Init(cfg Config) error
	Step(fw *firmware.Firmware[Custom]) (bool, error)
	Cleanup() error
}

// VirtualMatrix is an in-memory switch grid implementing the firmware's
// matrix source. Backends set switches, the firmware scans them.
type VirtualMatrix struct {
	grid [][]bool
}

// NewVirtualMatrix creates an all-released rows x cols matrix.
func NewVirtualMatrix(rows, cols int) *VirtualMatrix {
	m := &VirtualMatrix{grid: make([][]bool, rows)}
	for i := range m.grid {
		m.grid[i] = make([]bool, cols)
	}
	return m
}

// Set drives one switch. Out-of-range coordinates are ignored.
func (m *VirtualMatrix) Set(row, col uint8, pressed bool) {
	if int(row) < len(m.grid) && int(col) < len(m.grid[row]) {
		m.grid[row][col] = pressed
	}
}

// Get returns the current raw image. It never fails; simulated
// electricity is reliable.
func (m *VirtualMatrix) Get() ([][]bool, error) {
	return m.grid, nil
}

// Rows returns the row count.
func (m *VirtualMatrix) Rows() int { return len(m.grid) }

// Cols returns the column count.
func (m *VirtualMatrix) Cols() int {
	if len(m.grid) == 0 {
		return 0
	}
	return len(m.grid[0])
}

// Leds records indicator state so backends can display it.
type Leds struct {
	Num, Caps, Scroll, Comp, Kn bool
}

func (l *Leds) NumLock(on bool)    { l.Num = on }
func (l *Leds) CapsLock(on bool)   { l.Caps = on }
func (l *Leds) ScrollLock(on bool) { l.Scroll = on }
func (l *Leds) Compose(on bool)    { l.Comp = on }
func (l *Leds) Kana(on bool)       { l.Kn = on }
