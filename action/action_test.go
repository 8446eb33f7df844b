package action

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TeXitoi/keyberon/keycode"
)

func TestConstructors(t *testing.T) {
	assert.Equal(t, KindNoOp, NoOp[struct{}]().Kind())
	assert.Equal(t, KindTrans, Trans[struct{}]().Kind())

	k := K[struct{}](keycode.A)
	assert.Equal(t, KindKeyCode, k.Kind())
	assert.Equal(t, keycode.A, k.Key())

	m := M[struct{}](keycode.LShift, keycode.Kb1)
	assert.Equal(t, KindMultipleKeyCodes, m.Kind())
	assert.Equal(t, []keycode.KeyCode{keycode.LShift, keycode.Kb1}, m.Keys())

	l := L[struct{}](2)
	assert.Equal(t, KindLayer, l.Kind())
	n, _ := l.Layer()
	assert.Equal(t, 2, n)

	d := D[struct{}](1)
	assert.Equal(t, KindDefaultLayer, d.Kind())
	n, _ = d.Layer()
	assert.Equal(t, 1, n)

	c := C[uint8](9)
	assert.Equal(t, KindCustom, c.Kind())
	assert.Equal(t, uint8(9), *c.Custom())

	ht := HT(HoldTap[struct{}]{Timeout: 200, Hold: K[struct{}](keycode.LCtrl), Tap: K[struct{}](keycode.Escape)})
	assert.Equal(t, KindHoldTap, ht.Kind())
	assert.Equal(t, uint16(200), ht.HoldTap().Timeout)
}

func TestAppendKeyCodes(t *testing.T) {
	assert.Empty(t, NoOp[struct{}]().AppendKeyCodes(nil))
	assert.Empty(t, L[struct{}](1).AppendKeyCodes(nil))

	assert.Equal(t,
		[]keycode.KeyCode{keycode.A},
		K[struct{}](keycode.A).AppendKeyCodes(nil))

	// Nested multiple actions flatten in order.
	ma := MA[struct{}](
		M[struct{}](keycode.LShift, keycode.Kb1),
		K[struct{}](keycode.B),
		L[struct{}](1),
	)
	assert.Equal(t,
		[]keycode.KeyCode{keycode.LShift, keycode.Kb1, keycode.B},
		ma.AppendKeyCodes(nil))
}
