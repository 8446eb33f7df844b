package chording

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TeXitoi/keyberon/layout"
)

func twoKeyChord() []ChordDef {
	return []ChordDef{{
		Result: Coord{Row: 0, Col: 2},
		Keys:   []Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}},
	}}
}

func TestSinglePressReleasePassesThrough(t *testing.T) {
	ch := New(twoKeyChord())

	assert.Equal(t,
		[]layout.Event{layout.Press(0, 0)},
		ch.Tick([]layout.Event{layout.Press(0, 0)}))
	assert.Equal(t,
		[]layout.Event{layout.Release(0, 0)},
		ch.Tick([]layout.Event{layout.Release(0, 0)}))
}

func TestChordPressRelease(t *testing.T) {
	ch := New(twoKeyChord())

	assert.Equal(t,
		[]layout.Event{layout.Press(0, 2)},
		ch.Tick([]layout.Event{layout.Press(0, 0), layout.Press(0, 1)}))
	assert.Equal(t,
		[]layout.Event{layout.Release(0, 2)},
		ch.Tick([]layout.Event{layout.Release(0, 0), layout.Release(0, 1)}))
}

func TestChordHalfRelease(t *testing.T) {
	ch := New(twoKeyChord())

	assert.Equal(t,
		[]layout.Event{layout.Press(0, 2)},
		ch.Tick([]layout.Event{layout.Press(0, 0), layout.Press(0, 1)}))

	// A lone member release is consumed: its press was folded into the
	// virtual key, so the layout never saw it pressed.
	assert.Empty(t, ch.Tick([]layout.Event{layout.Release(0, 0)}))

	// Once every member is up, the virtual key releases.
	assert.Equal(t,
		[]layout.Event{layout.Release(0, 2)},
		ch.Tick([]layout.Event{layout.Release(0, 1)}))
}

func TestMemberPressedOutsideChordWindow(t *testing.T) {
	ch := New(twoKeyChord())

	// The first member press arrives alone and reaches the layout.
	assert.Equal(t,
		[]layout.Event{layout.Press(0, 0)},
		ch.Tick([]layout.Event{layout.Press(0, 0)}))

	// The second press completes the chord; only it is folded in.
	assert.Equal(t,
		[]layout.Event{layout.Press(0, 2)},
		ch.Tick([]layout.Event{layout.Press(0, 1)}))

	// The leaked member's release must still pass through so the layout
	// releases the key it saw pressed.
	assert.Equal(t,
		[]layout.Event{layout.Release(0, 0)},
		ch.Tick([]layout.Event{layout.Release(0, 0)}))

	assert.Equal(t,
		[]layout.Event{layout.Release(0, 2)},
		ch.Tick([]layout.Event{layout.Release(0, 1)}))
}
