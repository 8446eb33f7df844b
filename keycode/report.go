package keycode

// Report is the set of key codes asserted during one scan cycle. Codes
// keep the order in which they were first added, and adding a code
// already present is a no-op, so a report is deterministic even when
// two switches assert the same code.
//
// The zero value is an empty report. Use NewReport to preallocate the
// backing storage and keep the scan path allocation-free.
type Report struct {
	codes []KeyCode
}

// NewReport creates a report with room for cap codes.
func NewReport(capacity int) *Report {
	return &Report{codes: make([]KeyCode, 0, capacity)}
}

// Reset empties the report, keeping its storage.
func (r *Report) Reset() {
	r.codes = r.codes[:0]
}

// Add asserts a key code. No and duplicates are ignored.
func (r *Report) Add(k KeyCode) {
	if k == No {
		return
	}
	for _, c := range r.codes {
		if c == k {
			return
		}
	}
	r.codes = append(r.codes, k)
}

// Codes returns the asserted codes in first-assertion order. The slice
// aliases the report and is only valid until the next Reset.
func (r *Report) Codes() []KeyCode {
	return r.codes
}

// Equal reports whether both reports assert the same codes in the same
// order.
func (r *Report) Equal(o *Report) bool {
	if len(r.codes) != len(o.codes) {
		return false
	}
	for i, c := range r.codes {
		if o.codes[i] != c {
			return false
		}
	}
	return true
}

// CopyFrom replaces the report's contents with those of o.
func (r *Report) CopyFrom(o *Report) {
	r.codes = append(r.codes[:0], o.codes...)
}

// BootBytes serializes the report into the 8-byte HID boot protocol
// format: modifier bits, one reserved byte, then up to six key codes.
// More than six non-modifier codes signals ErrorRollOver in all six
// slots, as the protocol requires.
func (r *Report) BootBytes() [8]byte {
	var out [8]byte
	slot := 2
	for _, k := range r.codes {
		switch {
		case k.IsModifier():
			out[0] |= k.ModifierBit()
		case k == ErrorRollOver || k == PostFail || k == ErrorUndefined:
			return errorBytes(out[0], k)
		default:
			if slot == len(out) {
				return errorBytes(out[0], ErrorRollOver)
			}
			out[slot] = byte(k)
			slot++
		}
	}
	return out
}

func errorBytes(mods byte, k KeyCode) [8]byte {
	var out [8]byte
	out[0] = mods
	for i := 2; i < len(out); i++ {
		out[i] = byte(k)
	}
	return out
}
