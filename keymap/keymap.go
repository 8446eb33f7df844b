// Package keymap loads action tables from YAML keymap files.
//
// A keymap file describes the layers, chords and debounce threshold of
// a keyboard. Keys are spelled by their key code name; richer actions
// use small mappings:
//
//	debounce: 5
//	layers:
//	  - - [Tab, Q, W, E]
//	    - [{hold_tap: {timeout: 200, hold: LCtrl, tap: Escape}}, A, S, D]
//	  - - [trans, Kb1, Kb2, Kb3]
//	    - [{layer: 1}, noop, {multi: [LShift, Kb1]}, {custom: reset}]
//	chords:
//	  - keys: [[0, 0], [0, 1]]
//	    result: [1, 0]
//
// Recognized action forms: a key code name, "trans" (or "t"), "noop"
// (or "n"), {layer: n}, {default_layer: n}, {multi: [codes]},
// {actions: [...]}, {hold_tap: {...}}, {custom: name}. Custom names are
// resolved through the table passed to Parse, so the payload type stays
// caller-defined.
package keymap

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/TeXitoi/keyberon/action"
	"github.com/TeXitoi/keyberon/chording"
	"github.com/TeXitoi/keyberon/keycode"
	"github.com/TeXitoi/keyberon/layout"
)

// Keymap is a parsed and validated keymap.
type Keymap[T any] struct {
	Layers       layout.Layers[T]
	Chords       []chording.ChordDef
	Debounce     uint16
	DefaultLayer int
}

type file struct {
	Debounce     uint16          `yaml:"debounce"`
	DefaultLayer int             `yaml:"default_layer"`
	Layers       [][][]yaml.Node `yaml:"layers"`
	Chords       []chordSpec     `yaml:"chords"`
}

type chordSpec struct {
	Keys   [][2]uint8 `yaml:"keys"`
	Result [2]uint8   `yaml:"result"`
}

// yaml.Node fields stay values, not pointers: the decoder only
// special-cases the value type when capturing arbitrary subdocuments.
type holdTapSpec struct {
	Timeout  uint16    `yaml:"timeout"`
	Hold     yaml.Node `yaml:"hold"`
	Tap      yaml.Node `yaml:"tap"`
	Policy   string    `yaml:"policy"`
	QuickTap uint16    `yaml:"quick_tap"`
}

type mappingSpec struct {
	Layer        *int         `yaml:"layer"`
	DefaultLayer *int         `yaml:"default_layer"`
	Multi        []string     `yaml:"multi"`
	Actions      []yaml.Node  `yaml:"actions"`
	HoldTap      *holdTapSpec `yaml:"hold_tap"`
	Custom       string       `yaml:"custom"`
}

// Parse decodes a keymap file. Custom action names are looked up in
// customs; an unknown name is an error so typos surface at load time
// rather than as dead keys.
func Parse[T any](data []byte, customs map[string]T) (*Keymap[T], error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("keymap: %w", err)
	}
	if len(f.Layers) == 0 {
		return nil, fmt.Errorf("keymap: no layers defined")
	}
	km := &Keymap[T]{
		Debounce:     f.Debounce,
		DefaultLayer: f.DefaultLayer,
		Layers:       make(layout.Layers[T], len(f.Layers)),
	}
	for li, rows := range f.Layers {
		km.Layers[li] = make([][]action.Action[T], len(rows))
		for ri, cols := range rows {
			km.Layers[li][ri] = make([]action.Action[T], len(cols))
			for ci := range cols {
				a, err := compile(&cols[ci], customs)
				if err != nil {
					return nil, fmt.Errorf("keymap: layer %d row %d col %d: %w", li, ri, ci, err)
				}
				km.Layers[li][ri][ci] = a
			}
		}
	}
	for i, c := range f.Chords {
		def := chording.ChordDef{
			Result: chording.Coord{Row: c.Result[0], Col: c.Result[1]},
		}
		for _, k := range c.Keys {
			def.Keys = append(def.Keys, chording.Coord{Row: k[0], Col: k[1]})
		}
		if len(def.Keys) < 2 {
			return nil, fmt.Errorf("keymap: chord %d needs at least two keys", i)
		}
		km.Chords = append(km.Chords, def)
	}
	if err := km.Validate(); err != nil {
		return nil, err
	}
	return km, nil
}

func compile[T any](node *yaml.Node, customs map[string]T) (action.Action[T], error) {
	var zero action.Action[T]
	if node == nil || node.Kind == 0 {
		return zero, fmt.Errorf("missing action")
	}
	if node.Kind == yaml.ScalarNode {
		return compileScalar[T](node.Value)
	}
	if node.Kind != yaml.MappingNode {
		return zero, fmt.Errorf("action must be a name or a mapping")
	}
	var m mappingSpec
	if err := node.Decode(&m); err != nil {
		return zero, err
	}
	switch {
	case m.Layer != nil:
		return action.L[T](*m.Layer), nil
	case m.DefaultLayer != nil:
		return action.D[T](*m.DefaultLayer), nil
	case len(m.Multi) > 0:
		codes := make([]keycode.KeyCode, len(m.Multi))
		for i, name := range m.Multi {
			k, err := keycode.Parse(name)
			if err != nil {
				return zero, err
			}
			codes[i] = k
		}
		return action.M[T](codes...), nil
	case len(m.Actions) > 0:
		subs := make([]action.Action[T], len(m.Actions))
		for i := range m.Actions {
			a, err := compile(&m.Actions[i], customs)
			if err != nil {
				return zero, err
			}
			subs[i] = a
		}
		return action.MA[T](subs...), nil
	case m.HoldTap != nil:
		return compileHoldTap(m.HoldTap, customs)
	case m.Custom != "":
		v, ok := customs[m.Custom]
		if !ok {
			return zero, fmt.Errorf("unknown custom action %q", m.Custom)
		}
		return action.C[T](v), nil
	}
	return zero, fmt.Errorf("unrecognized action mapping")
}

func compileScalar[T any](s string) (action.Action[T], error) {
	switch s {
	case "trans", "t":
		return action.Trans[T](), nil
	case "noop", "n", "":
		return action.NoOp[T](), nil
	}
	k, err := keycode.Parse(s)
	if err != nil {
		return action.Action[T]{}, err
	}
	return action.K[T](k), nil
}

func compileHoldTap[T any](spec *holdTapSpec, customs map[string]T) (action.Action[T], error) {
	var zero action.Action[T]
	if spec.Timeout == 0 {
		return zero, fmt.Errorf("hold_tap: timeout is required")
	}
	hold, err := compile(&spec.Hold, customs)
	if err != nil {
		return zero, fmt.Errorf("hold_tap hold: %w", err)
	}
	tap, err := compile(&spec.Tap, customs)
	if err != nil {
		return zero, fmt.Errorf("hold_tap tap: %w", err)
	}
	var policy action.HoldTapPolicy
	switch spec.Policy {
	case "", "default":
		policy = action.HoldTapDefault
	case "hold_on_other_press":
		policy = action.HoldOnOtherKeyPress
	case "permissive_hold":
		policy = action.PermissiveHold
	default:
		return zero, fmt.Errorf("hold_tap: unknown policy %q", spec.Policy)
	}
	return action.HT(action.HoldTap[T]{
		Timeout:          spec.Timeout,
		Hold:             hold,
		Tap:              tap,
		Policy:           policy,
		QuickTapInterval: spec.QuickTap,
	}), nil
}

// Validate checks the keymap for authoring errors the engine would
// otherwise degrade to NoOp at runtime: ragged layers, layer references
// out of range, chord coordinates outside the table.
func (km *Keymap[T]) Validate() error {
	if len(km.Layers) == 0 || len(km.Layers[0]) == 0 || len(km.Layers[0][0]) == 0 {
		return fmt.Errorf("keymap: empty action table")
	}
	rows, cols := len(km.Layers[0]), len(km.Layers[0][0])
	for li, layer := range km.Layers {
		if len(layer) != rows {
			return fmt.Errorf("keymap: layer %d has %d rows, want %d", li, len(layer), rows)
		}
		for ri, row := range layer {
			if len(row) != cols {
				return fmt.Errorf("keymap: layer %d row %d has %d columns, want %d", li, ri, len(row), cols)
			}
			for ci, a := range row {
				if err := km.checkAction(a); err != nil {
					return fmt.Errorf("keymap: layer %d row %d col %d: %w", li, ri, ci, err)
				}
			}
		}
	}
	if km.DefaultLayer < 0 || km.DefaultLayer >= len(km.Layers) {
		return fmt.Errorf("keymap: default layer %d out of range", km.DefaultLayer)
	}
	for ri, row := range km.Layers[km.DefaultLayer] {
		for ci, a := range row {
			if containsTrans(a) {
				return fmt.Errorf("keymap: layer %d row %d col %d: transparent action on the default layer is a dead key", km.DefaultLayer, ri, ci)
			}
		}
	}
	for i, c := range km.Chords {
		coords := append([]chording.Coord{c.Result}, c.Keys...)
		for _, at := range coords {
			if int(at.Row) >= rows || int(at.Col) >= cols {
				return fmt.Errorf("keymap: chord %d references (%d,%d) outside the %dx%d table", i, at.Row, at.Col, rows, cols)
			}
		}
	}
	return nil
}

// containsTrans reports whether the action, or any action nested in it,
// is transparent. Transparent resolves against the default layer, so on
// the default layer itself it can only ever be a dead key.
func containsTrans[T any](a action.Action[T]) bool {
	switch a.Kind() {
	case action.KindTrans:
		return true
	case action.KindMultipleActions:
		for _, sub := range a.Actions() {
			if containsTrans(sub) {
				return true
			}
		}
	case action.KindHoldTap:
		return containsTrans(a.HoldTap().Hold) || containsTrans(a.HoldTap().Tap)
	}
	return false
}

func (km *Keymap[T]) checkAction(a action.Action[T]) error {
	switch a.Kind() {
	case action.KindLayer, action.KindDefaultLayer:
		n, _ := a.Layer()
		if n < 0 || n >= len(km.Layers) {
			return fmt.Errorf("layer %d out of range", n)
		}
	case action.KindMultipleActions:
		for _, sub := range a.Actions() {
			if err := km.checkAction(sub); err != nil {
				return err
			}
		}
	case action.KindHoldTap:
		ht := a.HoldTap()
		if err := km.checkAction(ht.Hold); err != nil {
			return err
		}
		if err := km.checkAction(ht.Tap); err != nil {
			return err
		}
	}
	return nil
}
