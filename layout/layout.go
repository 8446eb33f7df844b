// Package layout implements the layered key-resolution state machine.
//
// The layout consumes debounced matrix events plus one Tick per scan
// cycle and maintains the set of currently engaged keys. Actions are
// latched when a press is resolved, so layer changes never retroactively
// alter a key that is already down. Hold-tap keys are resolved by a
// per-key sub-machine driven by the tick counter and the queue of
// events that arrive while the decision is pending.
package layout

import (
	"fmt"
	"log/slog"

	"github.com/TeXitoi/keyberon/action"
	"github.com/TeXitoi/keyberon/keycode"
)

// maxStates bounds how many keys (plus layer and custom activations)
// can be engaged at once.
const maxStates = 64

// Layers is the action table: layer x row x column. Every coordinate
// must carry some action on every layer; fill gaps with NoOp or Trans.
type Layers[T any] [][][]action.Action[T]

// Layout turns key events and ticks into the currently asserted key
// codes. T is the custom action payload type.
type Layout[T any] struct {
	layers       Layers[T]
	rows, cols   int
	defaultLayer int

	states     []keyState[T]
	stacked    eventQueue
	waiting    waitingState[T]
	hasWaiting bool
	quickTap   quickTapTracker

	// contact tracks raw pressed/released per coordinate so protocol
	// violations can be detected before they corrupt the queue.
	contact []bool

	policyScratch []action.QueuedEvent
	codeScratch   []keycode.KeyCode
}

// CustomEvent reports a Custom action crossing press or release during
// a Tick. The zero value means no custom action fired.
type CustomEvent[T any] struct {
	kind  uint8 // 0 none, 1 press, 2 release
	value *T
}

// Pressed returns the payload if a custom action was pressed.
func (e CustomEvent[T]) Pressed() (*T, bool) { return e.value, e.kind == 1 }

// Released returns the payload if a custom action was released.
func (e CustomEvent[T]) Released() (*T, bool) { return e.value, e.kind == 2 }

// IsNoEvent reports whether no custom action fired.
func (e CustomEvent[T]) IsNoEvent() bool { return e.kind == 0 }

// update merges a new custom event. Ordering is none < press < release
// so a release is never lost when both fire within one tick.
func (e *CustomEvent[T]) update(n CustomEvent[T]) {
	if n.kind > e.kind {
		*e = n
	}
}

type stateKind uint8

const (
	stateNormalKey stateKind = iota
	stateLayerModifier
	stateCustom
)

// keyState is one latched activation: a held key code, a held layer
// overlay, or a held custom action.
type keyState[T any] struct {
	kind     stateKind
	row, col uint8
	code     keycode.KeyCode
	layer    int
	custom   *T
}

// waitingState is the hold-tap sub-machine for the one key currently
// awaiting its decision.
type waitingState[T any] struct {
	row, col uint8
	timeout  uint16
	// delay is how long the press event sat in the queue before it was
	// processed; it shifts the timeout so queued time still counts as
	// held time.
	delay  uint16
	hold   action.Action[T]
	tap    action.Action[T]
	policy action.HoldTapPolicy
	fn     action.PolicyFunc
}

// tick advances the waiting key by one scan and returns its decision,
// if any. Interrupting-key policies are evaluated before the own
// release, which is evaluated before the timeout; this makes the
// resolution order deterministic when several triggers could fire on
// the same tick.
func (w *waitingState[T]) tick(q *eventQueue, scratch *[]action.QueuedEvent) (action.WaitingAction, bool) {
	if w.timeout > 0 {
		w.timeout--
	}
	switch w.policy {
	case action.HoldOnOtherKeyPress:
		for i := 0; i < q.len(); i++ {
			if q.at(i).event.IsPress() {
				return action.WaitingHold, true
			}
		}
	case action.PermissiveHold:
		for i := 0; i < q.len(); i++ {
			s := q.at(i)
			if !s.event.IsPress() {
				continue
			}
			r, c := s.event.Coord()
			for j := i + 1; j < q.len(); j++ {
				if q.at(j).event == Release(r, c) {
					return action.WaitingHold, true
				}
			}
		}
	case action.HoldTapCustom:
		if w.fn != nil {
			*scratch = (*scratch)[:0]
			for i := 0; i < q.len(); i++ {
				s := q.at(i)
				r, c := s.event.Coord()
				*scratch = append(*scratch, action.QueuedEvent{
					Row: r, Col: c, Press: s.event.IsPress(), Since: s.since,
				})
			}
			if act, ok := w.fn(*scratch); ok {
				return act, true
			}
		}
	}
	for i := 0; i < q.len(); i++ {
		s := q.at(i)
		if s.event == Release(w.row, w.col) {
			if int(w.timeout)+int(s.since) >= int(w.delay) {
				return action.WaitingTap, true
			}
			return action.WaitingHold, true
		}
	}
	if w.timeout == 0 {
		return action.WaitingHold, true
	}
	return 0, false
}

// quickTapTracker remembers the last tap-capable key so a fast repeated
// press can replay the tap action without re-arming the resolver.
type quickTapTracker struct {
	row, col uint8
	timeout  uint16
}

func (t *quickTapTracker) tick() {
	if t.timeout > 0 {
		t.timeout--
	}
}

// New creates a layout over the given action table. The table must be
// non-empty and rectangular: every layer has the same row and column
// counts. Layer indices referenced by actions are not checked here
// (they degrade to NoOp at resolution time); use keymap validation to
// catch them at authoring time.
func New[T any](layers Layers[T]) (*Layout[T], error) {
	if len(layers) == 0 || len(layers[0]) == 0 || len(layers[0][0]) == 0 {
		return nil, fmt.Errorf("layout: empty action table")
	}
	rows, cols := len(layers[0]), len(layers[0][0])
	for li, layer := range layers {
		if len(layer) != rows {
			return nil, fmt.Errorf("layout: layer %d has %d rows, want %d", li, len(layer), rows)
		}
		for ri, row := range layer {
			if len(row) != cols {
				return nil, fmt.Errorf("layout: layer %d row %d has %d columns, want %d", li, ri, len(row), cols)
			}
		}
	}
	return &Layout[T]{
		layers:        layers,
		rows:          rows,
		cols:          cols,
		states:        make([]keyState[T], 0, maxStates),
		contact:       make([]bool, rows*cols),
		policyScratch: make([]action.QueuedEvent, 0, queueSize),
		codeScratch:   make([]keycode.KeyCode, 0, maxStates),
	}, nil
}

// Event registers a debounced key event. Events are queued and
// processed by Tick, one per scan, which keeps output ordering
// deterministic under hold-tap resolution.
//
// A press on an already-pressed coordinate, a release with no matching
// press, or a coordinate outside the table is a protocol violation:
// logged and dropped.
func (l *Layout[T]) Event(e Event) {
	row, col := e.Coord()
	if int(row) >= l.rows || int(col) >= l.cols {
		slog.Warn("key event outside the layout, ignoring", "event", e.String())
		return
	}
	idx := int(row)*l.cols + int(col)
	if l.contact[idx] == e.IsPress() {
		slog.Warn("out-of-order key event, ignoring", "event", e.String())
		return
	}
	l.contact[idx] = e.IsPress()

	if displaced, ok := l.stacked.push(queuedEvent{event: e}); ok {
		// Queue overflow: force the pending hold-tap to resolve and
		// process the displaced event right away.
		l.waitingIntoHold()
		l.unstack(displaced)
	}
}

// Tick advances the layout by one scan cycle. It must be called exactly
// once per cycle, even when no event arrived, so hold-tap timeouts keep
// counting. The returned CustomEvent reports a Custom action crossing
// press or release during this tick.
func (l *Layout[T]) Tick() CustomEvent[T] {
	l.stacked.tick()
	l.quickTap.tick()
	if l.hasWaiting {
		act, decided := l.waiting.tick(&l.stacked, &l.policyScratch)
		if !decided {
			return CustomEvent[T]{}
		}
		switch act {
		case action.WaitingHold:
			return l.waitingIntoHold()
		case action.WaitingTap:
			return l.waitingIntoTap()
		default:
			l.hasWaiting = false
			return CustomEvent[T]{}
		}
	}
	if qe, ok := l.stacked.popFront(); ok {
		return l.unstack(qe)
	}
	return CustomEvent[T]{}
}

func (l *Layout[T]) waitingIntoHold() CustomEvent[T] {
	if !l.hasWaiting {
		return CustomEvent[T]{}
	}
	w := l.waiting
	l.hasWaiting = false
	if w.row == l.quickTap.row && w.col == l.quickTap.col {
		l.quickTap.timeout = 0
	}
	return l.doAction(w.hold, w.row, w.col, 0)
}

func (l *Layout[T]) waitingIntoTap() CustomEvent[T] {
	if !l.hasWaiting {
		return CustomEvent[T]{}
	}
	w := l.waiting
	l.hasWaiting = false
	return l.doAction(w.tap, w.row, w.col, 0)
}

func (l *Layout[T]) unstack(qe queuedEvent) CustomEvent[T] {
	row, col := qe.event.Coord()
	if qe.event.IsRelease() {
		var custom CustomEvent[T]
		kept := l.states[:0]
		for _, s := range l.states {
			if s.row == row && s.col == col {
				if s.kind == stateCustom {
					custom.update(CustomEvent[T]{kind: 2, value: s.custom})
				}
				continue
			}
			kept = append(kept, s)
		}
		l.states = kept
		return custom
	}
	act := l.resolveAction(row, col, l.CurrentLayer())
	return l.doAction(act, row, col, qe.since)
}

// resolveAction looks up the action for a fresh press. Trans defers to
// the default layer exactly once; Trans on the default layer, like any
// out-of-range lookup, resolves to NoOp.
func (l *Layout[T]) resolveAction(row, col uint8, layer int) action.Action[T] {
	if layer < 0 || layer >= len(l.layers) {
		return action.NoOp[T]()
	}
	a := l.layers[layer][row][col]
	if a.Kind() == action.KindTrans {
		if layer != l.defaultLayer {
			return l.resolveAction(row, col, l.defaultLayer)
		}
		return action.NoOp[T]()
	}
	return a
}

func (l *Layout[T]) doAction(a action.Action[T], row, col uint8, delay uint16) CustomEvent[T] {
	switch a.Kind() {
	case action.KindNoOp, action.KindTrans:

	case action.KindHoldTap:
		ht := a.HoldTap()
		if l.hasWaiting {
			// Only one key can wait at a time; settle the previous one
			// as held before arming the new decision.
			l.waitingIntoHold()
		}
		sameKey := row == l.quickTap.row && col == l.quickTap.col
		if ht.QuickTapInterval == 0 || !sameKey || l.quickTap.timeout == 0 {
			l.waiting = waitingState[T]{
				row: row, col: col,
				timeout: ht.Timeout,
				delay:   delay,
				hold:    ht.Hold,
				tap:     ht.Tap,
				policy:  ht.Policy,
				fn:      ht.Func,
			}
			l.hasWaiting = true
			l.quickTap.timeout = ht.QuickTapInterval
		} else {
			l.quickTap.timeout = 0
			custom := l.doAction(ht.Tap, row, col, delay)
			l.quickTap.row, l.quickTap.col = row, col
			return custom
		}
		l.quickTap.row, l.quickTap.col = row, col

	case action.KindKeyCode:
		l.quickTap.row, l.quickTap.col = row, col
		l.pushState(keyState[T]{kind: stateNormalKey, row: row, col: col, code: a.Key()})

	case action.KindMultipleKeyCodes:
		l.quickTap.row, l.quickTap.col = row, col
		for _, k := range a.Keys() {
			l.pushState(keyState[T]{kind: stateNormalKey, row: row, col: col, code: k})
		}

	case action.KindMultipleActions:
		l.quickTap.row, l.quickTap.col = row, col
		var custom CustomEvent[T]
		for _, sub := range a.Actions() {
			custom.update(l.doAction(sub, row, col, delay))
		}
		return custom

	case action.KindLayer:
		l.quickTap.row, l.quickTap.col = row, col
		layer, _ := a.Layer()
		l.pushState(keyState[T]{kind: stateLayerModifier, row: row, col: col, layer: layer})

	case action.KindDefaultLayer:
		l.quickTap.row, l.quickTap.col = row, col
		layer, _ := a.Layer()
		l.SetDefaultLayer(layer)

	case action.KindCustom:
		l.quickTap.row, l.quickTap.col = row, col
		if l.pushState(keyState[T]{kind: stateCustom, row: row, col: col, custom: a.Custom()}) {
			return CustomEvent[T]{kind: 1, value: a.Custom()}
		}
	}
	return CustomEvent[T]{}
}

func (l *Layout[T]) pushState(s keyState[T]) bool {
	if len(l.states) == cap(l.states) {
		slog.Warn("key state overflow, dropping activation")
		return false
	}
	l.states = append(l.states, s)
	return true
}

// AppendKeyCodes appends the currently asserted key codes to dst, in
// the order the keys were engaged.
func (l *Layout[T]) AppendKeyCodes(dst []keycode.KeyCode) []keycode.KeyCode {
	for _, s := range l.states {
		if s.kind == stateNormalKey {
			dst = append(dst, s.code)
		}
	}
	return dst
}

// KeyCodes returns the currently asserted key codes. The slice is
// reused between calls.
func (l *Layout[T]) KeyCodes() []keycode.KeyCode {
	l.codeScratch = l.AppendKeyCodes(l.codeScratch[:0])
	return l.codeScratch
}

// CurrentLayer returns the layer a fresh press resolves on: the most
// recently engaged still-held layer key, or the default layer.
func (l *Layout[T]) CurrentLayer() int {
	for i := len(l.states) - 1; i >= 0; i-- {
		if l.states[i].kind == stateLayerModifier {
			return l.states[i].layer
		}
	}
	return l.defaultLayer
}

// SetDefaultLayer changes the default layer. Out-of-range values are
// ignored, as they come from misauthored DefaultLayer actions.
func (l *Layout[T]) SetDefaultLayer(n int) {
	if n >= 0 && n < len(l.layers) {
		l.defaultLayer = n
	}
}

// DefaultLayer returns the current default layer.
func (l *Layout[T]) DefaultLayer() int { return l.defaultLayer }

// Rows returns the row count of the action table.
func (l *Layout[T]) Rows() int { return l.rows }

// Cols returns the column count of the action table.
func (l *Layout[T]) Cols() int { return l.cols }

// NumLayers returns the layer count of the action table.
func (l *Layout[T]) NumLayers() int { return len(l.layers) }
