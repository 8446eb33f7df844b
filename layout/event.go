package layout

// Event is a debounced state transition of one switch on the matrix.
type Event struct {
	row, col uint8
	press    bool
}

// Press returns a press event for the switch at (row, col).
func Press(row, col uint8) Event {
	return Event{row: row, col: col, press: true}
}

// Release returns a release event for the switch at (row, col).
func Release(row, col uint8) Event {
	return Event{row: row, col: col}
}

// Coord returns the (row, col) coordinate of the event.
func (e Event) Coord() (uint8, uint8) { return e.row, e.col }

// IsPress reports whether the event is a key press.
func (e Event) IsPress() bool { return e.press }

// IsRelease reports whether the event is a key release.
func (e Event) IsRelease() bool { return !e.press }

// Transform remaps the coordinates of the event. Useful for split or
// mirrored keyboard halves sharing one layout.
func (e Event) Transform(f func(row, col uint8) (uint8, uint8)) Event {
	e.row, e.col = f(e.row, e.col)
	return e
}

func (e Event) String() string {
	if e.press {
		return "Press(" + itoa(e.row) + "," + itoa(e.col) + ")"
	}
	return "Release(" + itoa(e.row) + "," + itoa(e.col) + ")"
}

func itoa(v uint8) string {
	if v == 0 {
		return "0"
	}
	var buf [3]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = '0' + v%10
		v /= 10
	}
	return string(buf[i:])
}
