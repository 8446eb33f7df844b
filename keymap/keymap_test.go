package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeXitoi/keyberon/action"
	"github.com/TeXitoi/keyberon/chording"
	"github.com/TeXitoi/keyberon/keycode"
)

const sampleKeymap = `
debounce: 5
layers:
  - - [Tab, Q, W]
    - [{hold_tap: {timeout: 200, hold: LCtrl, tap: Escape, policy: permissive_hold, quick_tap: 150}}, A, {custom: reset}]
  - - [trans, {layer: 1}, {default_layer: 0}]
    - [noop, {multi: [LShift, Kb1]}, {actions: [{layer: 1}, LShift]}]
chords:
  - keys: [[0, 1], [0, 2]]
    result: [1, 0]
`

func TestParseSample(t *testing.T) {
	km, err := Parse([]byte(sampleKeymap), map[string]uint8{"reset": 1})
	require.NoError(t, err)

	assert.Equal(t, uint16(5), km.Debounce)
	assert.Equal(t, 0, km.DefaultLayer)
	require.Len(t, km.Layers, 2)
	require.Len(t, km.Layers[0], 2)
	require.Len(t, km.Layers[0][0], 3)

	assert.Equal(t, action.KindKeyCode, km.Layers[0][0][0].Kind())
	assert.Equal(t, keycode.Tab, km.Layers[0][0][0].Key())

	ht := km.Layers[0][1][0]
	require.Equal(t, action.KindHoldTap, ht.Kind())
	assert.Equal(t, uint16(200), ht.HoldTap().Timeout)
	assert.Equal(t, keycode.LCtrl, ht.HoldTap().Hold.Key())
	assert.Equal(t, keycode.Escape, ht.HoldTap().Tap.Key())
	assert.Equal(t, action.PermissiveHold, ht.HoldTap().Policy)
	assert.Equal(t, uint16(150), ht.HoldTap().QuickTapInterval)

	custom := km.Layers[0][1][2]
	require.Equal(t, action.KindCustom, custom.Kind())
	assert.Equal(t, uint8(1), *custom.Custom())

	assert.Equal(t, action.KindTrans, km.Layers[1][0][0].Kind())
	assert.Equal(t, action.KindNoOp, km.Layers[1][1][0].Kind())

	layerAct := km.Layers[1][0][1]
	require.Equal(t, action.KindLayer, layerAct.Kind())
	n, _ := layerAct.Layer()
	assert.Equal(t, 1, n)

	multi := km.Layers[1][1][1]
	require.Equal(t, action.KindMultipleKeyCodes, multi.Kind())
	assert.Equal(t, []keycode.KeyCode{keycode.LShift, keycode.Kb1}, multi.Keys())

	ma := km.Layers[1][1][2]
	require.Equal(t, action.KindMultipleActions, ma.Kind())
	assert.Len(t, ma.Actions(), 2)

	require.Len(t, km.Chords, 1)
	assert.Equal(t, chording.Coord{Row: 1, Col: 0}, km.Chords[0].Result)
	assert.Equal(t, []chording.Coord{{Row: 0, Col: 1}, {Row: 0, Col: 2}}, km.Chords[0].Keys)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty file", ``},
		{"no layers", `debounce: 3`},
		{"unknown key name", `
layers:
  - - [Frobnicate]
`},
		{"ragged rows", `
layers:
  - - [A, B]
  - - [A]
`},
		{"layer ref out of range", `
layers:
  - - [{layer: 7}]
`},
		{"default layer out of range", `
default_layer: 3
layers:
  - - [A]
`},
		{"unknown custom name", `
layers:
  - - [{custom: warp}]
`},
		{"unknown hold-tap policy", `
layers:
  - - [{hold_tap: {timeout: 100, hold: LCtrl, tap: A, policy: eager}}]
`},
		{"hold-tap missing timeout", `
layers:
  - - [{hold_tap: {hold: LCtrl, tap: A}}]
`},
		{"hold-tap missing tap", `
layers:
  - - [{hold_tap: {timeout: 100, hold: LCtrl}}]
`},
		{"transparent on default layer", `
layers:
  - - [trans, A]
  - - [A, B]
`},
		{"transparent on switched default layer", `
default_layer: 1
layers:
  - - [A, B]
  - - [trans, B]
`},
		{"transparent inside hold-tap on default layer", `
layers:
  - - [{hold_tap: {timeout: 100, hold: trans, tap: A}}, B]
`},
		{"chord with one key", `
layers:
  - - [A, B]
chords:
  - keys: [[0, 0]]
    result: [0, 1]
`},
		{"chord outside table", `
layers:
  - - [A, B]
chords:
  - keys: [[0, 0], [0, 1]]
    result: [4, 0]
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in), map[string]uint8{})
			assert.Error(t, err)
		})
	}
}

func TestNestedHoldTapRefsValidated(t *testing.T) {
	in := `
layers:
  - - [{hold_tap: {timeout: 100, hold: {layer: 5}, tap: A}}]
`
	_, err := Parse([]byte(in), map[string]uint8{})
	assert.Error(t, err)
}
