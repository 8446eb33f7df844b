// Package keycode defines USB HID keyboard usage codes and the report
// type assembled from them on every scan.
package keycode

// KeyCode is a USB HID keyboard usage ID (usage page 0x07).
type KeyCode uint8

const (
	No KeyCode = iota
	ErrorRollOver
	PostFail
	ErrorUndefined
	A
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M // 0x10
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z
	Kb1
	Kb2
	Kb3 // 0x20
	Kb4
	Kb5
	Kb6
	Kb7
	Kb8
	Kb9
	Kb0
	Enter
	Escape
	BSpace
	Tab
	Space
	Minus
	Equal
	LBracket
	RBracket  // 0x30
	BSlash    // \ (and |)
	NonUsHash // Non-US # and ~ (typically near the Enter key)
	SColon    // ; (and :)
	Quote     // ' and "
	Grave     // grave accent and tilde
	Comma     // , and <
	Dot       // . and >
	Slash     // / and ?
	CapsLock
	F1
	F2
	F3
	F4
	F5
	F6
	F7 // 0x40
	F8
	F9
	F10
	F11
	F12
	PScreen
	ScrollLock
	Pause
	Insert
	Home
	PgUp
	Delete
	End
	PgDown
	Right
	Left // 0x50
	Down
	Up
	NumLock
	KpSlash
	KpAsterisk
	KpMinus
	KpPlus
	KpEnter
	Kp1
	Kp2
	Kp3
	Kp4
	Kp5
	Kp6
	Kp7
	Kp8 // 0x60
	Kp9
	Kp0
	KpDot
	NonUsBslash // Non-US \ and | (typically near the Left-Shift key)
	Application // 0x65
)

// Modifiers occupy a dedicated usage range and map to bits 0-7 of the
// first report byte.
const (
	LCtrl KeyCode = 0xE0 + iota
	LShift
	LAlt
	LGui
	RCtrl
	RShift
	RAlt
	RGui // 0xE7
)

// IsModifier reports whether the code is a modifier key.
func (k KeyCode) IsModifier() bool {
	return LCtrl <= k && k <= RGui
}

// ModifierBit returns the modifier bit for the first report byte, or 0
// if the code is not a modifier.
func (k KeyCode) ModifierBit() uint8 {
	if !k.IsModifier() {
		return 0
	}
	return 1 << (k - LCtrl)
}
