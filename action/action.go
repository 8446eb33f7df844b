// Package action defines the variant type describing what a key does.
//
// An Action is authored into a key table once and never mutated; the
// layout engine only reads it. The type parameter T is the payload of
// Custom actions and lets callers drive arbitrary side effects (reset,
// backlight, mouse emulation) from the matrix without the engine
// knowing their semantics. Use struct{} when unused.
package action

import "github.com/TeXitoi/keyberon/keycode"

// Kind discriminates the Action variants.
type Kind uint8

const (
	// KindNoOp does nothing.
	KindNoOp Kind = iota
	// KindTrans defers to the same key on the default layer.
	KindTrans
	// KindKeyCode emits one key code while held.
	KindKeyCode
	// KindMultipleKeyCodes emits several key codes at once while held.
	KindMultipleKeyCodes
	// KindMultipleActions performs several actions at once.
	KindMultipleActions
	// KindLayer activates a layer while held.
	KindLayer
	// KindDefaultLayer changes the default layer on press.
	KindDefaultLayer
	// KindHoldTap resolves to a hold or a tap action.
	KindHoldTap
	// KindCustom notifies the embedding firmware with an opaque payload.
	KindCustom
)

// Action describes the behavior of one key on one layer.
//
// The zero value is NoOp.
type Action[T any] struct {
	kind    Kind
	code    keycode.KeyCode
	codes   []keycode.KeyCode
	actions []Action[T]
	layer   int
	holdTap *HoldTap[T]
	custom  *T
}

// HoldTapPolicy selects how an interrupting key press resolves a
// hold-tap key that is still awaiting its decision.
type HoldTapPolicy uint8

const (
	// HoldTapDefault ignores interrupting presses: the key resolves to
	// tap on its own release before the timeout, to hold otherwise.
	HoldTapDefault HoldTapPolicy = iota
	// HoldOnOtherKeyPress resolves to hold as soon as another key is
	// pressed.
	HoldOnOtherKeyPress
	// PermissiveHold resolves to hold when another key is both pressed
	// and released while this key is still down.
	PermissiveHold
	// HoldTapCustom delegates the decision to the Func field.
	HoldTapCustom
)

// WaitingAction is the outcome of a hold-tap decision.
type WaitingAction uint8

const (
	// WaitingHold performs the hold action.
	WaitingHold WaitingAction = iota
	// WaitingTap performs the tap action.
	WaitingTap
	// WaitingNoOp drops the key press entirely.
	WaitingNoOp
)

// QueuedEvent is a read-only view of an event waiting in the layout
// queue, handed to custom hold-tap policies. Since counts the ticks the
// event has been queued.
type QueuedEvent struct {
	Row, Col uint8
	Press    bool
	Since    uint16
}

// PolicyFunc implements a HoldTapCustom policy. It inspects the queued
// events and either forces an outcome or returns ok == false to let the
// timeout and release triggers decide.
type PolicyFunc func(queued []QueuedEvent) (act WaitingAction, ok bool)

// HoldTap configures a dual-role key.
type HoldTap[T any] struct {
	// Timeout is the number of ticks after which the key resolves to
	// Hold if nothing else decided earlier.
	Timeout uint16
	// Hold is performed when the key is held past Timeout.
	Hold Action[T]
	// Tap is performed when the key is released before Timeout.
	Tap Action[T]
	// Policy selects how interrupting key presses are treated.
	Policy HoldTapPolicy
	// Func is the decision function for HoldTapCustom.
	Func PolicyFunc
	// QuickTapInterval, when non-zero, repeats the tap action without
	// re-arming the resolver if the key is pressed again within that
	// many ticks of its previous tap.
	QuickTapInterval uint16
}

// NoOp returns the action that does nothing.
func NoOp[T any]() Action[T] { return Action[T]{} }

// Trans returns the transparent action: it resolves to the same key's
// action on the default layer, or NoOp when already there.
func Trans[T any]() Action[T] { return Action[T]{kind: KindTrans} }

// K returns a key code action.
func K[T any](k keycode.KeyCode) Action[T] {
	return Action[T]{kind: KindKeyCode, code: k}
}

// M returns an action emitting all given key codes at once.
func M[T any](ks ...keycode.KeyCode) Action[T] {
	return Action[T]{kind: KindMultipleKeyCodes, codes: ks}
}

// MA returns an action performing all given actions at once.
func MA[T any](as ...Action[T]) Action[T] {
	return Action[T]{kind: KindMultipleActions, actions: as}
}

// L returns a layer action: layer n is active while the key is held.
func L[T any](n int) Action[T] {
	return Action[T]{kind: KindLayer, layer: n}
}

// D returns a default layer action: pressing the key makes layer n the
// default until changed again.
func D[T any](n int) Action[T] {
	return Action[T]{kind: KindDefaultLayer, layer: n}
}

// HT returns a hold-tap action.
func HT[T any](ht HoldTap[T]) Action[T] {
	return Action[T]{kind: KindHoldTap, holdTap: &ht}
}

// C returns a custom action carrying the given payload.
func C[T any](v T) Action[T] {
	return Action[T]{kind: KindCustom, custom: &v}
}

// Kind returns the variant of the action.
func (a Action[T]) Kind() Kind { return a.kind }

// Layer returns the layer index of Layer and DefaultLayer actions.
func (a Action[T]) Layer() (int, bool) {
	if a.kind == KindLayer || a.kind == KindDefaultLayer {
		return a.layer, true
	}
	return 0, false
}

// HoldTap returns the hold-tap configuration of KindHoldTap actions.
func (a Action[T]) HoldTap() *HoldTap[T] { return a.holdTap }

// Custom returns the payload of KindCustom actions.
func (a Action[T]) Custom() *T { return a.custom }

// Actions returns the sub-actions of KindMultipleActions actions.
func (a Action[T]) Actions() []Action[T] { return a.actions }

// AppendKeyCodes appends the key codes the action emits to dst.
func (a Action[T]) AppendKeyCodes(dst []keycode.KeyCode) []keycode.KeyCode {
	switch a.kind {
	case KindKeyCode:
		return append(dst, a.code)
	case KindMultipleKeyCodes:
		return append(dst, a.codes...)
	case KindMultipleActions:
		for _, sub := range a.actions {
			dst = sub.AppendKeyCodes(dst)
		}
		return dst
	default:
		return dst
	}
}

// Key returns the key code of KindKeyCode actions.
func (a Action[T]) Key() keycode.KeyCode { return a.code }

// Keys returns the key codes of KindMultipleKeyCodes actions.
func (a Action[T]) Keys() []keycode.KeyCode { return a.codes }
