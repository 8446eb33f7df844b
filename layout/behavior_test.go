package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TeXitoi/keyberon/keycode"
)

func TestTransparentFallsBackToDefaultLayer(t *testing.T) {
	layers := Layers[struct{}]{
		{{kk(keycode.A), ll(2)}},
		{{kk(keycode.B), ll(2)}},
		{{trans(), ll(2)}},
	}
	l := newLayout(t, layers)

	l.Event(Press(0, 1))
	tickNone(t, l)
	assert.Equal(t, 2, l.CurrentLayer())
	l.Event(Press(0, 0))
	tickNone(t, l)
	assertKeys(t, l, keycode.A)
	l.Event(Release(0, 0))
	l.Event(Release(0, 1))
	tickNone(t, l)
	tickNone(t, l)
	assertKeys(t, l)

	// The fallback goes to the default layer, not the layer below.
	l.SetDefaultLayer(1)
	l.Event(Press(0, 1))
	tickNone(t, l)
	l.Event(Press(0, 0))
	tickNone(t, l)
	assertKeys(t, l, keycode.B)
	l.Event(Release(0, 0))
	l.Event(Release(0, 1))
	tickNone(t, l)
	tickNone(t, l)

	// Transparent on the default layer itself resolves to nothing.
	l.SetDefaultLayer(2)
	l.Event(Press(0, 0))
	tickNone(t, l)
	assertKeys(t, l)
	l.Event(Release(0, 0))
	tickNone(t, l)
}

func TestDefaultLayerAction(t *testing.T) {
	layers := Layers[struct{}]{
		{{dd(1), kk(keycode.A)}},
		{{dd(0), kk(keycode.B)}},
	}
	l := newLayout(t, layers)
	assert.Equal(t, 0, l.DefaultLayer())

	l.Event(Press(0, 0))
	tickNone(t, l)
	assert.Equal(t, 1, l.DefaultLayer())
	assert.Equal(t, 1, l.CurrentLayer())
	l.Event(Release(0, 0))
	tickNone(t, l)

	// The switch is sticky, unlike a layer modifier.
	l.Event(Press(0, 1))
	tickNone(t, l)
	assertKeys(t, l, keycode.B)
	l.Event(Release(0, 1))
	tickNone(t, l)

	l.Event(Press(0, 0))
	tickNone(t, l)
	assert.Equal(t, 0, l.DefaultLayer())
	l.Event(Release(0, 0))
	tickNone(t, l)
}

func TestKeyLatchesPressTimeAction(t *testing.T) {
	layers := Layers[struct{}]{
		{{ll(1), kk(keycode.A)}},
		{{trans(), kk(keycode.B)}},
	}
	l := newLayout(t, layers)

	l.Event(Press(0, 0))
	tickNone(t, l)
	assert.Equal(t, 1, l.CurrentLayer())
	l.Event(Press(0, 1))
	tickNone(t, l)
	assertKeys(t, l, keycode.B)

	// Releasing the layer key must not retroactively change the held
	// key's resolution.
	l.Event(Release(0, 0))
	tickNone(t, l)
	assert.Equal(t, 0, l.CurrentLayer())
	assertKeys(t, l, keycode.B)

	l.Event(Release(0, 1))
	tickNone(t, l)
	assertKeys(t, l)

	// A fresh press now resolves on the base layer.
	l.Event(Press(0, 1))
	tickNone(t, l)
	assertKeys(t, l, keycode.A)
	l.Event(Release(0, 1))
	tickNone(t, l)
}

func TestProtocolViolationsDropped(t *testing.T) {
	layers := Layers[struct{}]{{{kk(keycode.A), kk(keycode.B)}}}
	l := newLayout(t, layers)

	// Duplicate press for a key already down is dropped.
	l.Event(Press(0, 0))
	l.Event(Press(0, 0))
	assert.Equal(t, 1, l.stacked.len())

	// Release without a matching press is dropped.
	l.Event(Release(0, 1))
	assert.Equal(t, 1, l.stacked.len())

	// Out-of-bounds coordinates are dropped.
	l.Event(Press(9, 9))
	assert.Equal(t, 1, l.stacked.len())

	tickNone(t, l)
	assertKeys(t, l, keycode.A)
	l.Event(Release(0, 0))
	tickNone(t, l)
	assertKeys(t, l)
	assert.Equal(t, 0, l.stacked.len())
}

func TestStateDrainsToIdle(t *testing.T) {
	layers := Layers[struct{}]{
		{{ll(1), kk(keycode.A), ma(kk(keycode.LShift), kk(keycode.Kb1))}},
		{{trans(), kk(keycode.B), kk(keycode.C)}},
	}
	l := newLayout(t, layers)

	l.Event(Press(0, 0))
	tickNone(t, l)
	l.Event(Press(0, 1))
	tickNone(t, l)
	l.Event(Press(0, 2))
	tickNone(t, l)
	assertKeys(t, l, keycode.B, keycode.C)

	l.Event(Release(0, 2))
	l.Event(Release(0, 1))
	l.Event(Release(0, 0))
	for i := 0; i < 4; i++ {
		tickNone(t, l)
	}

	assertKeys(t, l)
	assert.Empty(t, l.states)
	assert.Equal(t, 0, l.stacked.len())
	assert.False(t, l.hasWaiting)
	assert.Equal(t, 0, l.CurrentLayer())
}

func TestEventQueueWraps(t *testing.T) {
	layers := Layers[struct{}]{{{kk(keycode.A)}}}
	l := newLayout(t, layers)

	// Flood the queue well past its capacity without ticking; the
	// oldest events are applied eagerly instead of being lost.
	for i := 0; i < 40; i++ {
		l.Event(Press(0, 0))
		l.Event(Release(0, 0))
	}
	for i := 0; i < 90; i++ {
		tickNone(t, l)
	}
	assertKeys(t, l)
	assert.Equal(t, 0, l.stacked.len())
	assert.Empty(t, l.states)
}
