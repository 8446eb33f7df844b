// Package keyboard holds the outgoing report and the keyboard LEDs.
//
// It sits between the layout and the transport: the report is latched
// so the transport is only handed a new report when it actually
// changed, and lock-indicator output from the host is decoded into the
// Leds handle without the core depending on any indicator hardware.
package keyboard

import "github.com/TeXitoi/keyberon/keycode"

// Leds drives the keyboard lock indicators. Implement it on whatever
// hardware you have; Keyboard calls it synchronously from the tick
// context, so implementations must not block.
type Leds interface {
	NumLock(on bool)
	CapsLock(on bool)
	ScrollLock(on bool)
	Compose(on bool)
	Kana(on bool)
}

// NoLeds is the Leds implementation for keyboards without indicators.
type NoLeds struct{}

func (NoLeds) NumLock(bool)    {}
func (NoLeds) CapsLock(bool)   {}
func (NoLeds) ScrollLock(bool) {}
func (NoLeds) Compose(bool)    {}
func (NoLeds) Kana(bool)       {}

// Keyboard latches the last report and owns the Leds handle.
type Keyboard struct {
	report *keycode.Report
	leds   Leds
}

// New creates a keyboard with the given Leds; pass NoLeds{} if you
// don't care about indicators.
func New(leds Leds) *Keyboard {
	if leds == nil {
		leds = NoLeds{}
	}
	return &Keyboard{report: keycode.NewReport(16), leds: leds}
}

// SetKeyboardReport latches a new report. It returns true when the
// report differs from the previous one and should be sent.
func (k *Keyboard) SetKeyboardReport(r *keycode.Report) bool {
	if k.report.Equal(r) {
		return false
	}
	k.report.CopyFrom(r)
	return true
}

// Report returns the last latched report.
func (k *Keyboard) Report() *keycode.Report { return k.report }

// Leds returns the indicator handle so the owning firmware can expose
// it to external code.
func (k *Keyboard) Leds() Leds { return k.leds }

// Lock indicator bits of the HID LED output report.
const (
	ledNumLock = 1 << iota
	ledCapsLock
	ledScrollLock
	ledCompose
	ledKana
)

// SetLedReport applies a host LED output byte to the indicators.
func (k *Keyboard) SetLedReport(b byte) {
	k.leds.NumLock(b&ledNumLock != 0)
	k.leds.CapsLock(b&ledCapsLock != 0)
	k.leds.ScrollLock(b&ledScrollLock != 0)
	k.leds.Compose(b&ledCompose != 0)
	k.leds.Kana(b&ledKana != 0)
}
