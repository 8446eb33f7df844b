package keycode

import "fmt"

var names = map[KeyCode]string{
	No:             "No",
	ErrorRollOver:  "ErrorRollOver",
	PostFail:       "PostFail",
	ErrorUndefined: "ErrorUndefined",
	A:              "A",
	B:              "B",
	C:              "C",
	D:              "D",
	E:              "E",
	F:              "F",
	G:              "G",
	H:              "H",
	I:              "I",
	J:              "J",
	K:              "K",
	L:              "L",
	M:              "M",
	N:              "N",
	O:              "O",
	P:              "P",
	Q:              "Q",
	R:              "R",
	S:              "S",
	T:              "T",
	U:              "U",
	V:              "V",
	W:              "W",
	X:              "X",
	Y:              "Y",
	Z:              "Z",
	Kb1:            "Kb1",
	Kb2:            "Kb2",
	Kb3:            "Kb3",
	Kb4:            "Kb4",
	Kb5:            "Kb5",
	Kb6:            "Kb6",
	Kb7:            "Kb7",
	Kb8:            "Kb8",
	Kb9:            "Kb9",
	Kb0:            "Kb0",
	Enter:          "Enter",
	Escape:         "Escape",
	BSpace:         "BSpace",
	Tab:            "Tab",
	Space:          "Space",
	Minus:          "Minus",
	Equal:          "Equal",
	LBracket:       "LBracket",
	RBracket:       "RBracket",
	BSlash:         "BSlash",
	NonUsHash:      "NonUsHash",
	SColon:         "SColon",
	Quote:          "Quote",
	Grave:          "Grave",
	Comma:          "Comma",
	Dot:            "Dot",
	Slash:          "Slash",
	CapsLock:       "CapsLock",
	F1:             "F1",
	F2:             "F2",
	F3:             "F3",
	F4:             "F4",
	F5:             "F5",
	F6:             "F6",
	F7:             "F7",
	F8:             "F8",
	F9:             "F9",
	F10:            "F10",
	F11:            "F11",
	F12:            "F12",
	PScreen:        "PScreen",
	ScrollLock:     "ScrollLock",
	Pause:          "Pause",
	Insert:         "Insert",
	Home:           "Home",
	PgUp:           "PgUp",
	Delete:         "Delete",
	End:            "End",
	PgDown:         "PgDown",
	Right:          "Right",
	Left:           "Left",
	Down:           "Down",
	Up:             "Up",
	NumLock:        "NumLock",
	KpSlash:        "KpSlash",
	KpAsterisk:     "KpAsterisk",
	KpMinus:        "KpMinus",
	KpPlus:         "KpPlus",
	KpEnter:        "KpEnter",
	Kp1:            "Kp1",
	Kp2:            "Kp2",
	Kp3:            "Kp3",
	Kp4:            "Kp4",
	Kp5:            "Kp5",
	Kp6:            "Kp6",
	Kp7:            "Kp7",
	Kp8:            "Kp8",
	Kp9:            "Kp9",
	Kp0:            "Kp0",
	KpDot:          "KpDot",
	NonUsBslash:    "NonUsBslash",
	Application:    "Application",
	LCtrl:          "LCtrl",
	LShift:         "LShift",
	LAlt:           "LAlt",
	LGui:           "LGui",
	RCtrl:          "RCtrl",
	RShift:         "RShift",
	RAlt:           "RAlt",
	RGui:           "RGui",
}

var byName = func() map[string]KeyCode {
	m := make(map[string]KeyCode, len(names))
	for k, n := range names {
		m[n] = k
	}
	return m
}()

func (k KeyCode) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("KeyCode(0x%02X)", uint8(k))
}

// Parse resolves a key code by its canonical name, as used in keymap
// files.
func Parse(name string) (KeyCode, error) {
	if k, ok := byName[name]; ok {
		return k, nil
	}
	return No, fmt.Errorf("unknown key code %q", name)
}
